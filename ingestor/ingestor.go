package ingestor

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"strings"
	"time"

	"github.com/ChristianF88/lsdsort/intutils"
	lj "github.com/elastic/go-lumber/lj"
	srv2 "github.com/elastic/go-lumber/server/v2"
)

// --- TCP Ingestor using go-lumber v2 ---

// TCPIngestor receives integers from lumberjack v2 clients (e.g. Filebeat).
// Each event either carries a "message" string with integers in the same
// format as input files, or a single numeric "value" field.
type TCPIngestor struct {
	listener    net.Listener
	readTimeout time.Duration // for server
	bits        int
	events      chan *lj.Batch
	pending     *lj.Batch // received by IsClosed, not yet read
	server      *srv2.Server
	running     bool
}

func NewTCPIngestor(addr string, readTimeout time.Duration, bits int) (*TCPIngestor, error) {
	if !intutils.IsValidWidth(bits) {
		return nil, fmt.Errorf("unsupported width %d", bits)
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return &TCPIngestor{
		listener:    ln,
		readTimeout: readTimeout,
		bits:        bits,
		events:      make(chan *lj.Batch, 1000),
	}, nil
}

// Addr returns the listening address.
func (ing *TCPIngestor) Addr() net.Addr {
	return ing.listener.Addr()
}

// Accept starts the lumberjack v2 Server.
func (ing *TCPIngestor) Accept() error {
	srv, err := srv2.NewWithListener(
		ing.listener,
		srv2.Timeout(ing.readTimeout),
	)
	if err != nil {
		return fmt.Errorf("failed to create lumberjack server: %w", err)
	}
	ing.server = srv
	ing.running = true

	// Pull batches off ReceiveChan and ack them.
	go func() {
		for batch := range ing.server.ReceiveChan() {
			ing.events <- batch
			batch.ACK()
		}
		close(ing.events)
	}()

	return nil
}

func parseEvent(evt map[string]interface{}, bits int) ([]int64, error) {
	if msg, ok := evt["message"].(string); ok {
		values, err := intutils.ParseLine(msg, bits)
		if err != nil {
			return nil, err
		}
		if len(values) == 0 {
			return nil, errors.New("no integers in message")
		}
		return values, nil
	}

	raw, ok := evt["value"]
	if !ok {
		return nil, errors.New("missing message or value field")
	}
	v, err := parseValue(raw, bits)
	if err != nil {
		return nil, err
	}
	return []int64{v}, nil
}

func parseValue(raw interface{}, bits int) (int64, error) {
	lo, hi := intutils.Bounds(bits)

	var v int64
	switch x := raw.(type) {
	case float64:
		// JSON numbers decode to float64; only integral values within 2^63 are accepted
		if x != math.Trunc(x) || x < -(1<<63) || x >= 1<<63 {
			return 0, fmt.Errorf("value %v is not a %d-bit integer", x, bits)
		}
		v = int64(x)
	case int:
		v = int64(x)
	case int64:
		v = x
	case json.Number:
		return intutils.ParseInt(x.String(), bits)
	case string:
		return intutils.ParseInt(strings.TrimSpace(x), bits)
	default:
		return 0, fmt.Errorf("unsupported value type %T", raw)
	}

	if v < lo || v > hi {
		return 0, fmt.Errorf("value %d does not fit into %d bits", v, bits)
	}
	return v, nil
}

// ReadBatch drains all batches received so far, in arrival order, and
// returns their integers and the number of events that could not be parsed.
func (ing *TCPIngestor) ReadBatch() ([]int64, int, error) {
	var out []int64
	skipped := 0

	if ing.pending != nil {
		out, skipped = ing.appendBatch(out, skipped, ing.pending)
		ing.pending = nil
	}

	for {
		select {
		case batch, ok := <-ing.events:
			if !ok {
				return out, skipped, nil
			}
			out, skipped = ing.appendBatch(out, skipped, batch)
		default:
			// Channel is empty, return what we have
			return out, skipped, nil
		}
	}
}

func (ing *TCPIngestor) appendBatch(out []int64, skipped int, batch *lj.Batch) ([]int64, int) {
	for _, evt := range batch.Events {
		m, ok := evt.(map[string]interface{})
		if !ok {
			skipped++
			continue
		}
		values, err := parseEvent(m, ing.bits)
		if err != nil {
			skipped++
			continue
		}
		out = append(out, values...)
	}
	return out, skipped
}

// IsClosed reports whether the server has stopped and every received batch
// has been read. A batch taken off the channel to find out is kept for the
// next ReadBatch.
func (ing *TCPIngestor) IsClosed() bool {
	if !ing.running {
		return true
	}
	if ing.pending != nil {
		return false
	}
	select {
	case batch, ok := <-ing.events:
		if !ok {
			return true
		}
		ing.pending = batch
		return false
	default:
		return false
	}
}

// Close shuts down the server and listener.
func (ing *TCPIngestor) Close() error {
	if ing.server != nil {
		ing.server.Close()
	}
	return ing.listener.Close()
}
