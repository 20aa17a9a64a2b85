package main

import (
	"pocheclient/cmd/wallabag-cli/commands"
	"pocheclient/lib/serviceutil"
)

func main() {
	ctx, cancel := serviceutil.SignalContext()
	defer cancel()
	commands.ExecuteContext(ctx)
}
