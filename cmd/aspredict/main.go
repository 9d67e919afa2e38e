package main

import (
	"bufio"
	"log"
	"os"
	"strings"

	"aspredict/corpus"
	"aspredict/policy"
	"aspredict/predict"
	"aspredict/relgraph"
)

func main() {
	log.SetFlags(0)
	if len(os.Args) == 1 {
		usage()
		return
	}

	a := handleArgs(os.Args)

	c, err := loadCorpus(a)
	if err != nil {
		log.Fatal("[aspredict]: ", err)
	}

	if a.snapshotFile != "" {
		if err := corpus.SaveSnapshot(c, a.snapshotFile); err != nil {
			log.Fatal("[aspredict]: failed writing snapshot: ", err)
		}
	}

	opts := policy.DefaultOptions()
	opts.StrictPeerStart = a.strictPeer
	co := predict.New(c, opts)

	if a.serveAddr != "" {
		if err := serve(a.serveAddr, co); err != nil {
			log.Fatal("[aspredict]: ", err)
		}
		return
	}

	runQueryLoop(os.Stdin, os.Stdout, co)
}

func loadCorpus(a args) (*corpus.Corpus, error) {
	if a.fromSnapshot != "" {
		c, err := corpus.LoadSnapshot(a.fromSnapshot)
		if err != nil {
			return nil, err
		}
		logRelationshipReport(c)
		return c, nil
	}

	b := corpus.NewBuilder()
	loadOpts := corpus.DefaultLoadOptions()
	if a.asSetFirst {
		loadOpts.ASSetElement = corpus.ASSetFirst
	}
	if a.dumpFile == "" || a.relFile == "" {
		usage()
		os.Exit(1)
	}
	dumpFiles := strings.Split(a.dumpFile, ",")
	if err := b.LoadDumps(dumpFiles, loadOpts); err != nil {
		return nil, err
	}
	if err := b.LoadRelations(a.relFile); err != nil {
		return nil, err
	}
	if a.coneFile != "" {
		if err := b.LoadCustomerCones(a.coneFile); err != nil {
			return nil, err
		}
	}
	c := b.Build()
	logRelationshipReport(c)
	return c, nil
}

// logRelationshipReport runs the relationship-graph connectivity
// diagnostic and reports how fragmented the loaded relations are, and
// how much of the -ppdc customer cone data falls inside the largest
// fragment.
func logRelationshipReport(c *corpus.Corpus) {
	report := relgraph.Analyze(c)
	if len(report.Components) == 0 {
		return
	}
	log.Printf("[aspredict]: relationship graph has %d component(s), largest spans %d AS(es), customer cone %d",
		len(report.Components), report.LargestComponentSize(), report.LargestComponentCustomerCone())
}

// runQueryLoop implements the line-oriented query format over an input
// and an output file: one "<ip1> <ip2>" query per line, one predicted
// path (or "0") per line in response, stopping at "q" or an empty line.
func runQueryLoop(r *os.File, w *os.File, co *predict.Coordinator) {
	scanner := bufio.NewScanner(r)
	out := bufio.NewWriter(w)
	defer out.Flush()

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || line == "q" {
			return
		}
		out.WriteString(answerQuery(line, co))
		out.WriteByte('\n')
		out.Flush()
	}
}
