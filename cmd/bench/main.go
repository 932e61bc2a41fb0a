package main

import (
	"log"
	"strings"

	"github.com/fulldump/goconfig"
)

type Config struct {
	Test string `usage:"name of the test: ALL | STORE | BAG | RETAIN"`
	N    int    `usage:"number of entries"`
	Seed int64  `usage:"random seed"`
}

func main() {

	c := Config{
		Test: "ALL",
		N:    1_000_000,
		Seed: 42,
	}
	goconfig.Read(&c)

	switch strings.ToUpper(c.Test) {
	case "ALL":
		TestStore(c)
		TestBag(c)
		TestRetain(c)
	case "STORE":
		TestStore(c)
	case "BAG":
		TestBag(c)
	case "RETAIN":
		TestRetain(c)
	default:
		log.Fatalf("Unknown test %s", c.Test)
	}
}
