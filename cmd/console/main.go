// Command console runs the booking intake or the consultation notes
// assistant in a terminal.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/config"
	"github.com/SaiNageswarS/go-api-boot/dotenv"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/medbook-agent/app"
	"github.com/SaiNageswarS/medbook-agent/appconfig"
	"github.com/SaiNageswarS/medbook-agent/intake"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	mode := flag.String("mode", "booking", "booking | notes")
	appointmentID := flag.String("appointment", "", "appointment id for notes mode")
	configPath := flag.String("config", "config.ini", "path to config file")
	flag.Parse()

	dotenv.LoadEnv()

	ccfgg := &appconfig.AppConfig{}
	if err := config.LoadConfig(*configPath, ccfgg); err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	ctx := context.Background()
	engine, err := app.Build(ctx, ccfgg, prometheus.NewRegistry())
	if err != nil {
		logger.Fatal("Failed to build engine", zap.Error(err))
	}
	defer engine.Close(ctx)

	switch *mode {
	case "booking":
		runBooking(ctx, engine.Orchestrator, os.Stdin, os.Stdout)
	case "notes":
		if *appointmentID == "" {
			logger.Fatal("notes mode needs -appointment")
		}
		runNotes(ctx, engine, *appointmentID, os.Stdin, os.Stdout)
	default:
		logger.Fatal("Unknown mode", zap.String("mode", *mode))
	}
}

func runBooking(ctx context.Context, o *intake.Orchestrator, in io.Reader, out io.Writer) {
	session := intake.NewSession()
	fmt.Fprintln(out, "Hi! Tell me what brings you in today. Type 'quit' to exit.")

	readLoop(in, out, func(line string) {
		resp := o.Converse(ctx, session, line)
		fmt.Fprintf(out, "\nAssistant: %s\n", resp.Message)
	})
}

type notesEngine interface {
	Summarize(ctx context.Context, appointmentID string) (string, error)
	Answer(ctx context.Context, appointmentID, message string) string
}

type engineNotes struct{ e *app.Engine }

func (n engineNotes) Summarize(ctx context.Context, id string) (string, error) {
	return n.e.Summarizer.Summarize(ctx, id)
}

func (n engineNotes) Answer(ctx context.Context, id, message string) string {
	return n.e.Chatbot.Answer(ctx, id, message)
}

func runNotes(ctx context.Context, e *app.Engine, appointmentID string, in io.Reader, out io.Writer) {
	notesLoop(ctx, engineNotes{e}, appointmentID, in, out)
}

func notesLoop(ctx context.Context, n notesEngine, appointmentID string, in io.Reader, out io.Writer) {
	summary, err := n.Summarize(ctx, appointmentID)
	if err != nil {
		fmt.Fprintf(out, "Could not summarize appointment %s: %v\n", appointmentID, err)
	} else {
		fmt.Fprintf(out, "%s\n\n", summary)
	}
	fmt.Fprintln(out, "Ask anything about your consultation. Type 'quit' to exit.")

	readLoop(in, out, func(line string) {
		fmt.Fprintf(out, "\nAssistant: %s\n", n.Answer(ctx, appointmentID, line))
	})
}

func readLoop(in io.Reader, out io.Writer, handle func(line string)) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\nYou: ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(line, "quit") {
			return
		}
		if line == "" {
			continue
		}
		handle(line)
	}
}
