package command

var tree = NewTree()

// RegisterCommand adds a command to the global tree
func RegisterCommand(cmd Command) {
	tree.Register(cmd)
}

// Default returns the global tree filled by RegisterCommand.
func Default() *CommandTree {
	return tree
}
