// Package replay drives a conversation store from a line-oriented script.
//
// Each non-blank line is one command:
//
//	select <id>        open a conversation
//	clear              clear the selection
//	draft <text>       set the draft (\n inserts a line break)
//	send               send the draft
//	say <id> <text>    append text to conversation id
//	record start|stop  start or stop a voice take
//	tick [n]           advance the clock n seconds (default 1)
//
// Lines starting with # are comments.
package replay

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matheus3301/svyazukha/internal/conversation"
)

// Op is a script command.
type Op string

const (
	OpSelect      Op = "select"
	OpClear       Op = "clear"
	OpDraft       Op = "draft"
	OpSend        Op = "send"
	OpSay         Op = "say"
	OpRecordStart Op = "record start"
	OpRecordStop  Op = "record stop"
	OpTick        Op = "tick"
)

// Step is one parsed script line.
type Step struct {
	Line int
	Op   Op
	ID   conversation.ID
	Text string
	N    int
}

// ParseError reports a malformed script line.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Parse reads a script.
func Parse(r io.Reader) ([]Step, error) {
	var steps []Step
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		step, err := parseLine(line, text)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return steps, nil
}

func parseLine(line int, text string) (Step, error) {
	name, rest, _ := strings.Cut(text, " ")
	rest = strings.TrimSpace(rest)
	step := Step{Line: line}

	switch strings.ToLower(name) {
	case "select":
		if rest == "" {
			return step, &ParseError{Line: line, Msg: "select needs a conversation id"}
		}
		step.Op, step.ID = OpSelect, conversation.ID(rest)
	case "clear":
		step.Op = OpClear
	case "draft":
		step.Op, step.Text = OpDraft, unescape(rest)
	case "send":
		step.Op = OpSend
	case "say":
		id, msg, ok := strings.Cut(rest, " ")
		if !ok || id == "" {
			return step, &ParseError{Line: line, Msg: "say needs a conversation id and text"}
		}
		step.Op, step.ID, step.Text = OpSay, conversation.ID(id), unescape(msg)
	case "record":
		switch strings.ToLower(rest) {
		case "start":
			step.Op = OpRecordStart
		case "stop":
			step.Op = OpRecordStop
		default:
			return step, &ParseError{Line: line, Msg: fmt.Sprintf("record wants start or stop, got %q", rest)}
		}
	case "tick":
		step.Op, step.N = OpTick, 1
		if rest != "" {
			n, err := strconv.Atoi(rest)
			if err != nil || n < 1 {
				return step, &ParseError{Line: line, Msg: fmt.Sprintf("tick count must be a positive integer, got %q", rest)}
			}
			step.N = n
		}
	default:
		return step, &ParseError{Line: line, Msg: fmt.Sprintf("unknown command %q", name)}
	}
	return step, nil
}

func unescape(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}
