package conventions

import (
	"log"
	"os"
)

func main() {
	log.Fatal("allowed in main")
	os.Exit(0)
}

func init() {
	panic("not allowed in init")   // want "panic is forbidden"
	log.Fatal("not allowed here")  // want "log.Fatal is forbidden outside main function"
	os.Exit(1)                     // want "os.Exit is forbidden outside main function"
}
