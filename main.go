// Command commitscope explores commit history as a linked scatter plot.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/commitscope/cmd"
	"github.com/huangsam/commitscope/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()
	iocache.CloseCaching()
	if perr := cmd.StopProfiling(); perr != nil {
		fmt.Fprintln(os.Stderr, "⚠️ ", perr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
