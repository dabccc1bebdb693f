// Command test-client connects to a running relay, joins a room with a
// signed join payload and prints every event it receives. Useful for manual
// end-to-end checks against a local instance.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	wsURL      = flag.String("ws-url", "ws://localhost:9876", "WebSocket URL of the relay")
	channel    = flag.String("channel", "key", "Channel to join: key or wallet")
	wkIdentity = flag.String("wk-identity", "", "Identity of the room to join")
	wif        = flag.String("wif", "", "WIF private key used to sign the join; empty joins unauthenticated")
	script     = flag.String("witness-script", "", "Witness script hex for multisig identities")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *wkIdentity == "" {
		log.Fatal().Msg("-wk-identity is required")
	}
	if *channel != "key" && *channel != "wallet" {
		log.Fatal().Str("channel", *channel).Msg("Channel must be key or wallet")
	}

	client, err := newRelayClient(*wsURL, *channel)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to relay")
	}
	defer client.close()

	join := joinPayload{WkIdentity: *wkIdentity}
	if *wif != "" {
		if err := signJoin(&join, *wif, *wkIdentity, *script); err != nil {
			log.Fatal().Err(err).Msg("Failed to sign join payload")
		}
	}

	if err := client.join(join); err != nil {
		log.Fatal().Err(err).Msg("Failed to send join")
	}
	log.Info().Str("channel", *channel).Str("wkIdentity", *wkIdentity).Msg("Joined room")

	done := make(chan struct{})
	go func() {
		defer close(done)
		client.listen(func(event string, data []byte) {
			log.Info().Str("event", event).RawJSON("data", data).Msg("Received event")
		})
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case <-quit:
	case <-done:
	}
}
