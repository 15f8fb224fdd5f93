// Command ipcqueue-demo is a producer/consumer smoke test for a queue,
// grounded in the Host/Guest pingpong experiments this package's
// implementation was built from: one role writes sequential integers,
// the other drains and sums them.
package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/cloudtoid/interprocess"
)

func main() {
	var (
		role     = pflag.String("role", "", "publisher or subscriber (required)")
		name     = pflag.String("queue", "ipcqueue-demo", "queue name")
		path     = pflag.String("path", "", "POSIX directory for the backing file and socket (default: OS temp dir)")
		capacity = pflag.Int64("capacity", 1<<20, "ring capacity in bytes (power of two)")
		count    = pflag.Int("count", 100000, "messages to publish, or (subscriber) to expect before exiting")
	)
	pflag.Parse()

	if *role != "publisher" && *role != "subscriber" {
		fmt.Fprintln(os.Stderr, "ipcqueue-demo: --role must be \"publisher\" or \"subscriber\"")
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	q, err := interprocess.New(*name, *capacity).WithPath(*path).Open()
	if err != nil {
		logrus.WithError(err).Fatal("opening queue")
	}
	defer q.Close()

	switch *role {
	case "publisher":
		runPublisher(ctx, q, *count)
	case "subscriber":
		runSubscriber(ctx, q, *count)
	}
}

func runPublisher(ctx context.Context, q *interprocess.Queue, count int) {
	p := q.NewPublisher()
	defer p.Close()

	buf := make([]byte, 8)
	start := time.Now()
	for i := 0; i < count; i++ {
		binary.LittleEndian.PutUint64(buf, uint64(i))
		if err := p.Enqueue(ctx, buf); err != nil {
			logrus.WithError(err).WithField("at", i).Fatal("publishing")
		}
	}
	logrus.WithFields(logrus.Fields{
		"count":    count,
		"elapsed":  time.Since(start),
	}).Info("publisher done")
}

func runSubscriber(ctx context.Context, q *interprocess.Queue, count int) {
	s := q.NewSubscriber()
	defer s.Close()

	var sum uint64
	dest := make([]byte, 8)
	start := time.Now()
	for i := 0; i < count; i++ {
		body, err := s.Dequeue(ctx, dest)
		if err != nil {
			logrus.WithError(err).WithField("at", i).Fatal("dequeuing")
		}
		sum += binary.LittleEndian.Uint64(body)
	}
	logrus.WithFields(logrus.Fields{
		"count":   count,
		"sum":     sum,
		"elapsed": time.Since(start),
	}).Info("subscriber done")
}
