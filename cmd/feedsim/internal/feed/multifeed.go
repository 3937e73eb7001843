package feed

import "fmt"

// DefaultMultiFeedSymbols is the four-way split used for multi-feed
// benchmark setups.
var DefaultMultiFeedSymbols = []string{"AAPL", "MSFT", "GOOGL", "AMZN"}

// MultiFeedCommands returns one shell invocation per symbol, each with its
// own multicast group, for running independent feed processes side by side.
// This performs no network activity; a true multi-feed setup is just N
// processes with no coupling beyond the shared medium.
func MultiFeedCommands(symbols []string, port, rate, duration int) []string {
	cmds := make([]string, 0, len(symbols))
	for i, symbol := range symbols {
		group := fmt.Sprintf("239.1.1.%d", i+1)
		cmds = append(cmds, fmt.Sprintf(
			"FEED_GROUP=%s FEED_PORT=%d FEED_SYMBOL=%s FEED_RATE=%d FEED_DURATION=%d feedsim",
			group, port, symbol, rate, duration))
	}
	return cmds
}
