package main

import (
	"flag"
	"os"
)

// args holds the parsed command-line configuration, mirroring the
// teacher's flag.NewFlagSet-per-mode convention in args.go.
type args struct {
	dumpFile     string
	relFile      string
	coneFile     string
	snapshotFile string
	fromSnapshot string
	serveAddr    string
	asSetFirst   bool
	strictPeer   bool
}

func handleArgs(argv []string) args {
	if len(argv) < 1 {
		usage()
		os.Exit(1)
	}
	cmd := flag.NewFlagSet(argv[0], flag.ExitOnError)

	var a args
	cmd.StringVar(&a.dumpFile, "dump", "", "BGP dump file, or comma-separated list of files (pipe-delimited)")
	cmd.StringVar(&a.relFile, "asrel", "", "CAIDA AS-relationships file")
	cmd.StringVar(&a.coneFile, "ppdc", "", "CAIDA customer-cone file (diagnostics only)")
	cmd.StringVar(&a.snapshotFile, "snapshot", "", "write a sqlite snapshot of the loaded corpus to this path")
	cmd.StringVar(&a.fromSnapshot, "from-snapshot", "", "load the corpus from a sqlite snapshot instead of -dump/-asrel")
	cmd.StringVar(&a.serveAddr, "serve", "", "listen on this TCP address instead of reading queries from stdin")
	cmd.BoolVar(&a.asSetFirst, "as-set-first", false, "take the first element of an AS-set token instead of the second")
	cmd.BoolVar(&a.strictPeer, "strict-peer-start", true, "reject paths that begin with a peering edge")

	cmd.Parse(argv[1:])
	return a
}

func usage() {
	println("\nUsage of aspredict:\n")
	println("  aspredict -dump <file> -asrel <file> [-serve <addr>]")
	println("  aspredict -from-snapshot <file> [-serve <addr>]")
	println("\nReads queries as \"<ip1> <ip2>\" lines from stdin (or TCP with -serve),")
	println("writes the predicted AS path, or \"0\" if none was found.")
}
