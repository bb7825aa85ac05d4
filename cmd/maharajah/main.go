// Command maharajah is a local, per-repository semantic code search engine.
package main

import "github.com/mvp-joe/maharajah/internal/cli"

func main() {
	cli.Execute()
}
