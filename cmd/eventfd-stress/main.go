// Command eventfd-stress exercises an event object with concurrent writers
// and readers, reporting throughput and pool statistics.
//
// Examples:
//
//	eventfd-stress --writers 8 --readers 2 --posts 100000
//	eventfd-stress --semaphore --poll --metrics-addr :9090
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
