// Package actor confines a non-concurrency-safe resource to a single
// goroutine, routing requests to it over a channel.
package actor

import (
	"context"
	"fmt"

	"github.com/mvp-joe/maharajah/internal/embed"
)

// EmbedRequest is one unit of work sent to the embedder goroutine.
type EmbedRequest struct {
	Ctx   context.Context
	Text  string
	Mode  embed.EmbedMode
	Reply chan EmbedReply
}

// EmbedReply carries the result back to the caller.
type EmbedReply struct {
	Vector []float32
	Err    error
}

// Embedder owns a embed.Provider exclusively: only its run loop ever calls
// Provider.Embed. Callers go through Embed, which queues a request on the
// actor's inbound channel and waits on its own reply channel; the actor never
// blocks a caller on another caller's work beyond queueing.
type Embedder struct {
	in       chan EmbedRequest
	provider embed.Provider
	done     chan struct{}
}

// requestBuffer is the actor's inbound queue depth.
const requestBuffer = 32

// NewEmbedder starts the actor goroutine, which owns provider until Stop is
// called. provider.Close is invoked from the actor goroutine on shutdown.
func NewEmbedder(provider embed.Provider) *Embedder {
	a := &Embedder{
		in:       make(chan EmbedRequest, requestBuffer),
		provider: provider,
		done:     make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *Embedder) run() {
	defer close(a.done)
	defer a.provider.Close()

	for req := range a.in {
		vectors, err := a.provider.Embed(req.Ctx, []string{req.Text}, req.Mode)
		reply := EmbedReply{Err: err}
		if err == nil {
			reply.Vector = vectors[0]
		}
		req.Reply <- reply
	}
}

// Embed sends a single text through the actor and waits for the result.
// Safe to call from any number of goroutines concurrently.
func (a *Embedder) Embed(ctx context.Context, text string, mode embed.EmbedMode) ([]float32, error) {
	reply := make(chan EmbedReply, 1)
	req := EmbedRequest{Ctx: ctx, Text: text, Mode: mode, Reply: reply}

	select {
	case a.in <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case r := <-reply:
		if r.Err != nil {
			return nil, fmt.Errorf("actor: embed: %w", r.Err)
		}
		return r.Vector, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Stop closes the request channel, letting the actor drain in-flight work
// and release the provider, then waits for the goroutine to exit.
func (a *Embedder) Stop() {
	close(a.in)
	<-a.done
}
