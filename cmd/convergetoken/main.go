// Command convergetoken mints a caller token for the converge API.
//
//	CONVERGE_TOKEN_KEY=... convergetoken -identity owner
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dalemusser/converge/internal/app/system/auth"
)

func main() {
	identity := flag.String("identity", "", "caller identity to encode")
	key := flag.String("key", os.Getenv("CONVERGE_TOKEN_KEY"), "token signing key (default $CONVERGE_TOKEN_KEY)")
	maxAge := flag.Duration("max-age", 0, "token lifetime; expiry is enforced by the server's token_max_age")
	flag.Parse()

	if *identity == "" {
		log.Fatal("-identity is required")
	}

	codec, err := auth.NewCodec([]byte(*key), *maxAge)
	if err != nil {
		log.Fatal(err)
	}
	token, err := codec.Encode(*identity)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(token)
}
