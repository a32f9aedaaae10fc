package main

import (
	"context"

	"omnivox-backend/cmd/omnivox-cli/commands"

	_ "time/tzdata"
)

func main() {
	commands.ExecuteContext(context.Background())
}
