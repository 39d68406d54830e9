// Command isobox runs an untrusted executable inside an isolated
// sandbox and reports its exit disposition and resource usage.
package main

import "github.com/talismancer/isobox/internal/cli"

func main() {
	cli.Main()
}
