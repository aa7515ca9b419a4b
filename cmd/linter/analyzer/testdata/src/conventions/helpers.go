package conventions

import (
	"log"
	"os"
)

func abortOnError(err error) {
	if err != nil {
		panic(err) // want "panic is forbidden"
	}
}

func fatalHelper() {
	log.Fatalf("something broke") // want "log.Fatalf is forbidden outside main function"
}

func exitHelper() {
	os.Exit(2) // want "os.Exit is forbidden outside main function"
}

func readSetting() string {
	return os.Getenv("SERVER_ADDRESS") // want "os.Getenv is forbidden outside the config package"
}

func lookupSetting() (string, bool) {
	return os.LookupEnv("BASE_URL") // want "os.LookupEnv is forbidden outside the config package"
}
