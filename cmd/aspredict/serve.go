package main

import (
	"bufio"
	"fmt"
	"net"
	"net/netip"
	"strings"

	"aspredict/predict"
)

// maxConcurrentSessions bounds how many TCP query sessions run at once.
// pool.Launch_pool's signature (a fixed worker count over a known, bounded
// slice) fits a one-shot batch fan-out; it does not model an open-ended
// accept loop that produces work one connection at a time, so session
// bounding here uses a plain buffered-channel semaphore instead.
const maxConcurrentSessions = 64

// serve listens on addr and answers one query session per connection.
// Each session speaks the same line protocol as the stdin query loop:
// one "<ip1> <ip2>" line in, one path line out, closing on "q" or an
// empty line.
func serve(addr string, co *predict.Coordinator) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	defer ln.Close()

	sem := make(chan struct{}, maxConcurrentSessions)
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		sem <- struct{}{}
		go func() {
			defer func() { <-sem }()
			handleSession(conn, co)
		}()
	}
}

func handleSession(conn net.Conn, co *predict.Coordinator) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || line == "q" {
			return
		}
		fmt.Fprintln(conn, answerQuery(line, co))
	}
}

// answerQuery parses a "<ip1> <ip2>" line and formats the predicted path,
// or "0" if the line is malformed or no path was found.
func answerQuery(line string, co *predict.Coordinator) string {
	parts := strings.Split(line, " ")
	if len(parts) != 2 {
		return "0"
	}
	s, err := netip.ParseAddr(parts[0])
	if err != nil {
		return "0"
	}
	d, err := netip.ParseAddr(parts[1])
	if err != nil {
		return "0"
	}

	res, ok := co.Predict(s, d)
	if !ok {
		return "0"
	}
	return formatPath(res.Path)
}

func formatPath(path []uint64) string {
	parts := make([]string, len(path))
	for i, asn := range path {
		parts[i] = fmt.Sprintf("%d", asn)
	}
	return strings.Join(parts, " ")
}
