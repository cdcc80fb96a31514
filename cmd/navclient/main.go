package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"time"

	"lintang/navigatorx/pkg/protocol"
	"lintang/navigatorx/pkg/util"

	"golang.org/x/exp/slog"
)

var (
	addr      = flag.String("addr", "localhost:6060", "navserver tcp address")
	ackPolicy = flag.String("ack", "after", "after | before, must match the server")
	start     = flag.Bool("start", false, "announce the session start first")
	timeout   = flag.Duration("timeout", 5*time.Second, "per line read timeout")
	verbose   = flag.Bool("v", false, "debug logging")
)

// navclient reads "lat1 lon1 lat2 lon2" requests from stdin, one per line, and prints the
// waypoints navserver streams back.
func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := util.NewLogger(level, false, os.Stderr)

	policy, err := protocol.ParseAckPolicy(*ackPolicy)
	if err != nil {
		log.Error("bad -ack", "err", err)
		os.Exit(2)
	}

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		log.Error("failed to connect", "addr", *addr, "err", err)
		os.Exit(1)
	}
	defer conn.Close()

	tr := protocol.NewLineTransport(conn, conn, *timeout)
	defer tr.Close()
	client := protocol.NewClient(tr, policy)
	if *start {
		if err := client.Start(); err != nil {
			log.Error("failed to start session", "err", err)
			os.Exit(1)
		}
	}

	ctx := context.Background()
	input := bufio.NewScanner(os.Stdin)
	for input.Scan() {
		fields := protocol.Fields(input.Text())
		if len(fields) == 0 {
			continue
		}
		req, err := protocol.ParseRequest(append([]string{string(protocol.TokenRequest)}, fields...))
		if err != nil {
			log.Warn("skipping input", "err", err)
			continue
		}

		waypoints, err := client.RequestPath(ctx, req)
		if err != nil {
			log.Error("request failed", "err", err)
			os.Exit(1)
		}
		log.Debug("route received", "waypoints", len(waypoints))
		for _, w := range waypoints {
			fmt.Printf("%v %v\n", w.Lat, w.Lon)
		}
		fmt.Println()
	}

	if err := client.End(); err != nil {
		log.Error("failed to end session", "err", err)
	}
}
