package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/roffe/memslog/cmd/memstool/cmd"
	"github.com/rs/zerolog/log"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel() // Setup interupt handler for ctrl-c
	quitChan := make(chan os.Signal, 1)
	signal.Notify(quitChan, os.Interrupt)
	go func() {
		s := <-quitChan
		log.Info().Msgf("got %v, exiting", s)
		cancel()
		<-time.After(15 * time.Second)
		log.Fatal().Msg("took to long to shutdown, forcefully exiting")
	}()
	if err := cmd.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
