package command

import "fmt"

// Replies shared by several commands. Functions take the prefix so help
// texts match the configured one.

const (
	noGameParam   = "Game to interact with cannot be identified. Please enter it after the command."
	noCutoffParam = "No player count data exists for that game. Please enter it after the game name in the command."
	badCutoff     = "The player count must be a positive whole number."
	notInAnyQueue = "You do not appear to currently be in a queue. Please join one before switching games."
)

func noQueue(prefix string) string {
	return fmt.Sprintf("There is no queue. Type '%squeue [game_name] [player_number]' to create one.", prefix)
}

func invalidCommand(prefix string) string {
	return fmt.Sprintf("Invalid command. Try using `%shelp` to figure out commands!", prefix)
}

func queueEnded(prefix string) string {
	return fmt.Sprintf("The queue has been ended. Type '%squeue [game_name]' to start a new queue.", prefix)
}

func helpText(prefix string) string {
	p := prefix
	return fmt.Sprintf(`Commands:
	%[1]squeue|join [game] [players]   join a queue, creating it if needed
	%[1]sleave|quit [game]             leave the queue
	%[1]snext|rotate|update [game]     rotate players for the next game
	%[1]sstatus [game]                 show current and waiting players
	%[1]swait|time [game]              how long until your next game
	%[1]sadd <player> [game]           add someone else
	%[1]skick|remove <player> [game]   remove someone
	%[1]sdelay [game]                  sit out until you rejoin
	%[1]srejoin [game]                 stop delaying
	%[1]sundo [game]                   undo the last change
	%[1]sgame|switch <game> [players]  move the queue to another game
	%[1]send [game]                    end the queue`, p)
}
