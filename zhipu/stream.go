package zhipu

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fwojciec/kaoyan"
)

// stream implements [kaoyan.Stream] by parsing "data:" frames from an HTTP
// response body.
type stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	logger  *slog.Logger
	onFrame func(string)
	state   kaoyan.StreamState
	pending []kaoyan.Chunk
	err     error // terminal error, if any
}

// Interface compliance check.
var _ kaoyan.Stream = (*stream)(nil)

func newStream(body io.ReadCloser, logger *slog.Logger, onFrame func(string)) *stream {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &stream{
		body:    body,
		scanner: scanner,
		logger:  logger,
		onFrame: onFrame,
		state:   kaoyan.StreamStateNew,
	}
}

// NewStream wraps a raw frame source. Exported for testing.
func NewStream(body io.ReadCloser) kaoyan.Stream {
	return newStream(body, slog.New(slog.DiscardHandler), nil)
}

// Next returns the next chunk. It returns io.EOF after the [DONE] marker or
// when the body ends.
func (s *stream) Next() (kaoyan.Chunk, error) {
	switch s.state {
	case kaoyan.StreamStateComplete:
		return nil, io.EOF
	case kaoyan.StreamStateError:
		return nil, s.err
	case kaoyan.StreamStateClosed:
		return nil, fmt.Errorf("zhipu: %w", kaoyan.ErrStreamClosed)
	}

	for {
		if len(s.pending) > 0 {
			c := s.pending[0]
			s.pending = s.pending[1:]
			s.state = kaoyan.StreamStateStreaming
			return c, nil
		}

		payload, err := s.readFrame()
		if err == io.EOF {
			s.state = kaoyan.StreamStateComplete
			return nil, io.EOF
		}
		if err != nil {
			s.terminate(err)
			return nil, s.err
		}
		if payload == doneMarker {
			s.state = kaoyan.StreamStateComplete
			return nil, io.EOF
		}

		chunks, err := s.decodeFrame(payload)
		if err != nil {
			s.terminate(err)
			return nil, s.err
		}
		s.pending = append(s.pending, chunks...)
	}
}

// State returns the current stream state.
func (s *stream) State() kaoyan.StreamState {
	return s.state
}

// Close closes the underlying HTTP response body.
func (s *stream) Close() error {
	if s.state != kaoyan.StreamStateComplete && s.state != kaoyan.StreamStateError {
		s.state = kaoyan.StreamStateClosed
	}
	return s.body.Close()
}

func (s *stream) terminate(err error) {
	s.state = kaoyan.StreamStateError
	s.err = err
}

// readFrame returns the payload of the next "data:" line. Other lines
// (comments, event names, blank separators) are skipped.
func (s *stream) readFrame() (string, error) {
	for s.scanner.Scan() {
		line := s.scanner.Text()
		if s.onFrame != nil && line != "" {
			s.onFrame(line)
		}
		payload, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}
		payload = strings.TrimSpace(payload)
		if payload == "" {
			continue
		}
		return payload, nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", fmt.Errorf("zhipu: %w", err)
	}
	return "", io.EOF
}

// decodeFrame maps one frame to chunks, reasoning before content. A frame
// that is not valid JSON is skipped; an error frame ends the stream.
func (s *stream) decodeFrame(payload string) ([]kaoyan.Chunk, error) {
	var frame apiStreamFrame
	if err := json.Unmarshal([]byte(payload), &frame); err != nil {
		s.logger.Debug("skipping malformed frame", "payload", payload, "error", err)
		return nil, nil
	}
	if frame.Error != nil {
		return nil, &kaoyan.ProviderError{Provider: kaoyan.ProviderZhipu, Message: frame.Error.String()}
	}

	var chunks []kaoyan.Chunk
	for _, choice := range frame.Choices {
		if t := choice.Delta.ReasoningContent; t != "" {
			chunks = append(chunks, kaoyan.ChunkThinking{Content: t})
		}
		if t := choice.Delta.Content; t != "" {
			chunks = append(chunks, kaoyan.ChunkContent{Content: t})
		}
	}
	return chunks, nil
}
