// Command uopath serves spatial queries and A* pathfinding over a
// tile-based, multi-layered, toroidal game world, or runs one-shot
// traces and a terminal viewer against the same loaded world.
package main

import "github.com/kelindar/uopath/cmd/uopath/cmd"

func main() {
	cmd.Execute()
}
