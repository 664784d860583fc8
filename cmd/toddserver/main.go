/*
Toddserver starts a REST server that provides CRUD operations on todo records
over a schemaless document datastore.

Usage:

	toddserver [flags]

Once started, the server will listen for HTTP requests and respond to them as
configured. The endpoints are:

  - POST /todos - create a new todo
  - GET /todos - list all todos
  - GET /todos/{id} - get a single todo
  - PUT /todos/{id} - apply a partial update to a todo
  - PATCH /todos/{id} - same as PUT
  - DELETE /todos/{id} - remove a todo

The flags are:

	-c, --config PATH
		Use the given file for the configuration instead of './todd.yml'. The
		file must be in JSON or YAML format.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/dekarrin/jellog"
	"github.com/spf13/pflag"

	"github.com/dekarrin/todd/config"
	"github.com/dekarrin/todd/server"
)

const (
	exitSuccess   = 0
	exitError     = 1
	exitPanic     = 2
	exitInterrupt = 3
)

var exitCode int

var (
	flagConf = pflag.StringP("config", "c", "todd.yml", "Path to configuration file")
)

func main() {
	// context for signal handling. might be overkill, taking this from example
	// located at https://pace.dev/blog/2020/02/17/repond-to-ctrl-c-interrupt-signals-gracefully-with-context-in-golang-by-mat-ryer.html
	ctx := context.Background()
	ctx, cancelMainContext := context.WithCancel(ctx)
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt)
	defer func() {
		signal.Stop(signalChan)
		cancelMainContext()
	}()
	// listen for signals
	go func() {
		select {
		case <-signalChan: // first signal, cancel context
			cancelMainContext()
		case <-ctx.Done():
		}

		<-signalChan // second signal, hard exit
		os.Exit(exitInterrupt)
	}()

	defer func() {
		if panicErr := recover(); panicErr != nil {
			fmt.Fprintf(os.Stderr, "fatal panic: %v\n", panicErr)
			exitCode = exitPanic
		}
		os.Exit(exitCode)
	}()

	pflag.Parse()

	stdErrOutput := jellog.NewStderrHandler(nil)
	logger := jellog.New(jellog.Defaults[string]().
		WithComponent("todd"))
	logger.AddHandler(jellog.LvTrace, stdErrOutput)

	logger.Infof("Loading config file %s...", *flagConf)
	conf, err := config.Load(*flagConf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		exitCode = exitError
		return
	}

	srv, err := server.New(&conf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		exitCode = exitError
		return
	}

	logger.Info("Starting server...")

	go func() {
		err := srv.ServeForever()
		if errors.Is(err, http.ErrServerClosed) {
			logger.Info("Server shutdown by request")
		} else {
			logger.Errorf("Server encountered a problem: %v", err)
		}
	}()

	logger.Info("Todd server started; Ctrl-C (SIGINT) to stop")

	// wait forever, checking for interrupt and doing clean shutdown if we get
	// it
	for {
		select {
		case <-ctx.Done():
			// cleanup

			// ctrl-C likes to write "^C" or similar in some console output, so
			// insert a break right after that. This is not cross-platform; if
			// an indication of ctrl C is not written, there may be an awkward
			// break in stderr, but at least we tried.
			logger.InsertBreak(jellog.LvAll)

			logger.Info("SIGINT received; cleaning up server...")
			err := srv.Shutdown(context.Background())
			if err != nil {
				logger.Warn(err.Error())
			}
			logger.Info("Server shutdown complete")
			return
		default:
			// just spinlock for a sec
			time.Sleep(100 * time.Millisecond)
		}
	}

}
