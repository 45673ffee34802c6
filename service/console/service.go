// Package console implements the interactive command loop.
//
// Every line is either a command (status [filter...], config, help, quit,
// exit) or an order line parsed by the order package.  Each ordered unit
// becomes one task submitted to the orchestrator.  Lines may come from a
// terminal, a pipe or a script loaded with afs.
package console

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/viant/afs"
	"github.com/viant/brigade/internal/idgen"
	"github.com/viant/brigade/model"
	"github.com/viant/brigade/service/dao"
	"github.com/viant/brigade/service/dao/criteria"
	"github.com/viant/brigade/service/order"
	"github.com/viant/brigade/tracing"
	"go.uber.org/zap"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Prompt is shown before every interactive line
const Prompt = "> "

// Orchestrator is the part of the pool the console drives
type Orchestrator interface {
	SubmitOrder(ctx context.Context, task *model.Task) (bool, error)
	DisplayStatus(ctx context.Context, w io.Writer, parameters ...*dao.Parameter) error
	CloseIdleWorkers(ctx context.Context) int
}

// Service reads commands and forwards them to the orchestrator
type Service struct {
	orchestrator Orchestrator
	config       Config
	in           io.Reader
	out          io.Writer
	logger       *zap.Logger
	fs           afs.Service
	settings     interface{}
	prompt       *bool
	sessionID    string
	commands     int
}

// New creates a console reading stdin and writing stdout
func New(orchestrator Orchestrator, options ...Option) *Service {
	ret := &Service{
		orchestrator: orchestrator,
		config:       DefaultConfig(),
		in:           os.Stdin,
		out:          os.Stdout,
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.sessionID == "" {
		ret.sessionID = idgen.New()
	}
	if ret.logger == nil {
		ret.logger = zap.NewNop()
	}
	ret.logger = ret.logger.With(zap.String("session", ret.sessionID))
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	if ret.prompt == nil {
		interactive := isTerminal(ret.in)
		ret.prompt = &interactive
	}
	return ret
}

// SessionID returns the identifier attached to every console log entry
func (s *Service) SessionID() string {
	return s.sessionID
}

// Run executes lines until quit, exit, end of input or ctx is done
func (s *Service) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if *s.prompt {
			fmt.Fprint(s.out, Prompt)
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		quit, err := s.Execute(ctx, scanner.Text())
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// RunScript executes every line of the script at URL. It reports whether the
// script asked to quit.
func (s *Service) RunScript(ctx context.Context, URL string) (bool, error) {
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return false, fmt.Errorf("failed to load script %v: %w", URL, err)
	}
	s.logger.Info("running script", zap.String("url", URL))
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		quit, err := s.Execute(ctx, scanner.Text())
		if err != nil || quit {
			return quit, err
		}
	}
	return false, scanner.Err()
}

// Execute runs one console line and reports whether the session should end
func (s *Service) Execute(ctx context.Context, line string) (bool, error) {
	command := strings.TrimSpace(line)
	if command == "" {
		return false, nil
	}
	s.commands++
	if s.config.CloseIdleEvery > 0 && s.commands%s.config.CloseIdleEvery == 0 {
		if closed := s.orchestrator.CloseIdleWorkers(ctx); closed > 0 {
			s.logger.Info("closed idle workers", zap.Int("closed", closed))
		}
	}
	fields := strings.Fields(strings.ToLower(command))
	switch fields[0] {
	case "quit", "exit":
		if len(fields) == 1 {
			return true, nil
		}
	case "help":
		if len(fields) == 1 {
			PrintHelp(s.out)
			return false, nil
		}
	case "config":
		if len(fields) == 1 {
			return false, s.printSettings()
		}
	case "status":
		return false, s.displayStatus(ctx, fields[1:])
	}
	s.submit(ctx, command)
	return false, nil
}

// statusFilters maps a status argument to the snapshot criteria it applies
var statusFilters = map[string]*dao.Parameter{
	"idle":       dao.NewParameter(criteria.Idle, true),
	"busy":       dao.NewParameter(criteria.Idle, false),
	"silent":     dao.NewParameter(criteria.Fallback, true),
	"responsive": dao.NewParameter(criteria.Fallback, false),
}

func (s *Service) displayStatus(ctx context.Context, args []string) error {
	var parameters []*dao.Parameter
	var workerIDs []int
	for _, arg := range args {
		if id, err := strconv.Atoi(arg); err == nil && id > 0 {
			workerIDs = append(workerIDs, id)
			continue
		}
		parameter, ok := statusFilters[arg]
		if !ok {
			fmt.Fprintf(s.out, "Unknown status filter: %s\n", arg)
			fmt.Fprintln(s.out, "Filters: idle busy silent responsive <worker id>")
			return nil
		}
		parameters = append(parameters, parameter)
	}
	if len(workerIDs) > 0 {
		parameters = append(parameters, dao.NewParameter(criteria.WorkerID, workerIDs))
	}
	return s.orchestrator.DisplayStatus(ctx, s.out, parameters...)
}

func (s *Service) submit(ctx context.Context, line string) {
	orders, err := order.Parse(line)
	if err != nil {
		s.logger.Debug("rejected order line", zap.String("line", line), zap.Error(err))
		fmt.Fprintln(s.out, "Invalid order format.")
		fmt.Fprintf(s.out, "Example: %s\n", order.Example)
		return
	}
	if len(orders) == 0 {
		return
	}
	ctx, span := tracing.StartSpan(ctx, "console.order", tracing.KindInternal)
	span.WithAttributes(map[string]string{"session": s.sessionID, "line": line})
	failed := 0
	for _, item := range orders {
		for _, task := range item.Tasks(s.config.Multiplier) {
			ok, err := s.orchestrator.SubmitOrder(ctx, task)
			if !ok {
				failed++
				s.logger.Warn("order rejected", zap.String("task", task.Name()), zap.Error(err))
				fmt.Fprintf(s.out, "Failed to order: %s (no available worker)\n", task.Name())
				continue
			}
			fmt.Fprintf(s.out, "Ordered: %s\n", task.Name())
		}
	}
	tracing.EndSpan(span.WithInt("failed", failed), nil)
	if s.config.OrderPause > 0 {
		time.Sleep(s.config.OrderPause)
	}
}

func (s *Service) printSettings() error {
	if s.settings == nil {
		fmt.Fprintln(s.out, "No configuration available.")
		return nil
	}
	data, err := yaml.Marshal(s.settings)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	_, err = s.out.Write(data)
	return err
}

func isTerminal(in io.Reader) bool {
	file, ok := in.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
