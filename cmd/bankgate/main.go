// Command bankgate serves the Phegon Bank web front end.
package main

func main() {
	Execute()
}
