// Package interprocess implements a multi-producer / multi-consumer FIFO
// message queue backed by a fixed-size shared-memory circular buffer.
//
// Processes on the same host attach to a named queue and exchange
// variable-length byte messages without a broker process. Coordination
// between processes is lock-free: three atomic fields (HeadOffset,
// TailOffset, and each message's State) plus an out-of-band wake-up signal
// used only to reduce latency, never for correctness.
//
// # Quick start
//
//	q, err := interprocess.Open(interprocess.Options{
//		QueueName: "orders",
//		Path:      "/tmp",
//		Capacity:  1 << 20,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer q.Close()
//
//	pub := q.NewPublisher()
//	if err := pub.TryEnqueue([]byte("hello")); interprocess.IsWouldBlock(err) {
//		// queue full
//	}
//
//	sub := q.NewSubscriber()
//	body, err := sub.Dequeue(context.Background(), nil)
//
// See Options for the full set of tunables and DESIGN.md in the module
// root for the grounding of every piece of this implementation.
package interprocess
