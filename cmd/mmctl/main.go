// Command mmctl replays, generates, and inspects allocator traces.
package main

func main() {
	execute()
}
