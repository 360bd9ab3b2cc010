package main

import (
	"wt-summariser/cmd/wt-summariser/commands"
	"wt-summariser/internal/components/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
