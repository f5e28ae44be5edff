package venice

import "bytes"

const (
	ssePrefix = "data:"
	sseDone   = "[DONE]"
)

// sseScanner incrementally extracts data payloads from a Server-Sent-Events
// byte stream. It keeps a single carry-over buffer holding the trailing
// partial line, so records split across reads — including inside a
// multi-byte UTF-8 sequence — reassemble correctly: the scanner only ever
// splits at newline bytes.
//
// After the [DONE] sentinel the scanner is terminal and discards all
// further input.
type sseScanner struct {
	buf  []byte
	done bool
}

// feed appends p to the buffer and returns the payload of every complete
// `data:` line now available, in order. Empty lines, comment lines, and
// non-data fields are skipped. Payload slices are copies; they do not alias
// the internal buffer.
func (s *sseScanner) feed(p []byte) [][]byte {
	if s.done {
		return nil
	}
	s.buf = append(s.buf, p...)

	var payloads [][]byte
	for {
		i := bytes.IndexByte(s.buf, '\n')
		if i < 0 {
			return payloads
		}
		line := s.buf[:i]
		s.buf = append([]byte(nil), s.buf[i+1:]...)

		payload, ok, done := parseSSELine(line)
		if done {
			s.done = true
			s.buf = nil
			return payloads
		}
		if ok {
			payloads = append(payloads, payload)
		}
	}
}

// flush processes the buffered partial final line after the stream ends.
// Servers are expected to terminate every record with a newline, but a
// truncated final record still parses through the same per-line logic.
func (s *sseScanner) flush() [][]byte {
	if s.done || len(s.buf) == 0 {
		return nil
	}
	line := s.buf
	s.buf = nil

	payload, ok, done := parseSSELine(line)
	if done {
		s.done = true
		return nil
	}
	if !ok {
		return nil
	}
	return [][]byte{payload}
}

// terminated reports whether the [DONE] sentinel was seen.
func (s *sseScanner) terminated() bool {
	return s.done
}

// parseSSELine classifies one raw line. ok is true when payload holds a
// data payload to parse; done is true on the [DONE] sentinel.
func parseSSELine(line []byte) (payload []byte, ok, done bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 || line[0] == ':' {
		return nil, false, false
	}
	if !bytes.HasPrefix(line, []byte(ssePrefix)) {
		return nil, false, false
	}
	payload = bytes.TrimSpace(line[len(ssePrefix):])
	if bytes.Equal(payload, []byte(sseDone)) {
		return nil, false, true
	}
	return append([]byte(nil), payload...), true, false
}
