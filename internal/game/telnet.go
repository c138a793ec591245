package game

import (
	"bufio"
	"bytes"
	"net"
	"strings"
	"sync"

	"golang.org/x/text/encoding/charmap"
)

// Telnet command bytes (RFC 854). Other commands are read and ignored.
const (
	telnetSE   byte = 240
	telnetSB   byte = 250
	telnetWILL byte = 251
	telnetWONT byte = 252
	telnetDO   byte = 253
	telnetDONT byte = 254
	telnetIAC  byte = 255
)

const (
	telnetOptEcho         byte = 1
	telnetOptSuppressGA   byte = 3
	telnetOptTerminalType byte = 24
	telnetOptWindowSize   byte = 31
	telnetOptLineMode     byte = 34
	telnetOptCharset      byte = 42
)

const terminalTypeIs byte = 0

// optionReplies answers each negotiation verb: the first reply agrees, the
// second refuses. Options missing from the agreed set are always refused.
var (
	optionReplies = map[byte][2]byte{
		telnetDO:   {telnetWILL, telnetWONT},
		telnetDONT: {telnetWONT, telnetWONT},
		telnetWILL: {telnetDO, telnetDONT},
		telnetWONT: {telnetDONT, telnetDONT},
	}
	agreedOptions = map[byte]map[byte]bool{
		telnetDO:   {telnetOptSuppressGA: true},
		telnetWILL: {telnetOptTerminalType: true, telnetOptWindowSize: true},
	}
)

// TelnetSession wraps a client connection, handling option negotiation and
// translating text to the character set the client agreed to.
type TelnetSession struct {
	conn    net.Conn
	reader  *bufio.Reader
	mu      sync.Mutex
	width   int
	height  int
	term    string
	charset string
	cmap    *charmap.Charmap
}

func NewTelnetSession(conn net.Conn) *TelnetSession {
	s := &TelnetSession{
		conn:    conn,
		reader:  bufio.NewReader(conn),
		width:   80,
		height:  24,
		charset: "UTF-8",
	}
	s.performHandshake()
	return s
}

func (s *TelnetSession) performHandshake() {
	_ = s.writeCommand(telnetWILL, telnetOptSuppressGA)
	_ = s.writeCommand(telnetWONT, telnetOptEcho)
	_ = s.writeCommand(telnetDONT, telnetOptLineMode)
	_ = s.writeCommand(telnetDO, telnetOptTerminalType)
	_ = s.writeCommand(telnetDO, telnetOptWindowSize)
	_ = s.writeCommand(telnetWILL, telnetOptCharset)
}

func (s *TelnetSession) writeCommand(cmd, opt byte) error {
	return s.writeRaw([]byte{telnetIAC, cmd, opt})
}

func (s *TelnetSession) writeRaw(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.conn.Write(payload)
	return err
}

func (s *TelnetSession) writeSubnegotiation(opt byte, payload []byte) error {
	escaped := bytes.ReplaceAll(payload, []byte{telnetIAC}, []byte{telnetIAC, telnetIAC})
	frame := append([]byte{telnetIAC, telnetSB, opt}, escaped...)
	return s.writeRaw(append(frame, telnetIAC, telnetSE))
}

// WriteString sends msg to the client, encoded for the negotiated charset.
func (s *TelnetSession) WriteString(msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload := []byte(msg)
	if s.cmap != nil {
		payload = encodeWithCharmap(s.cmap, payload)
	}
	_, err := s.conn.Write(translateForTelnet(payload))
	return err
}

// translateForTelnet expands bare LF to CRLF and doubles IAC bytes.
func translateForTelnet(msg []byte) []byte {
	out := make([]byte, 0, len(msg)+8)
	for i, b := range msg {
		switch {
		case b == '\n' && (i == 0 || msg[i-1] != '\r'):
			out = append(out, '\r', '\n')
		case b == telnetIAC:
			out = append(out, telnetIAC, telnetIAC)
		default:
			out = append(out, b)
		}
	}
	return out
}

// ReadLine returns the next line of input with telnet commands removed.
func (s *TelnetSession) ReadLine() (string, error) {
	var line []byte
	for {
		b, err := s.reader.ReadByte()
		if err != nil {
			return "", err
		}
		switch b {
		case '\r':
			if next, err := s.reader.Peek(1); err == nil && next[0] == '\n' {
				_, _ = s.reader.ReadByte()
			}
			return s.decode(line), nil
		case '\n':
			return s.decode(line), nil
		case 0x08, 0x7f:
			if len(line) > 0 {
				line = line[:len(line)-1]
			}
		case 0x00:
		case telnetIAC:
			literal, err := s.readCommand()
			if err != nil {
				return "", err
			}
			if literal {
				line = append(line, telnetIAC)
			}
		default:
			line = append(line, b)
		}
	}
}

// readCommand consumes the rest of a command that began with IAC. It reports
// true when the command was an escaped IAC data byte.
func (s *TelnetSession) readCommand() (bool, error) {
	cmd, err := s.reader.ReadByte()
	if err != nil {
		return false, err
	}
	switch cmd {
	case telnetIAC:
		return true, nil
	case telnetDO, telnetDONT, telnetWILL, telnetWONT:
		opt, err := s.reader.ReadByte()
		if err != nil {
			return false, err
		}
		s.negotiate(cmd, opt)
	case telnetSB:
		opt, payload, err := s.readSubnegotiation()
		if err != nil {
			return false, err
		}
		s.applySubnegotiation(opt, payload)
	}
	return false, nil
}

func (s *TelnetSession) decode(raw []byte) string {
	s.mu.Lock()
	cm := s.cmap
	s.mu.Unlock()
	if cm == nil {
		return string(raw)
	}
	return decodeWithCharmap(cm, raw)
}

func (s *TelnetSession) negotiate(cmd, opt byte) {
	if cmd == telnetDO && opt == telnetOptCharset {
		_ = s.writeSubnegotiation(telnetOptCharset, append([]byte{charsetRequest}, charsetOffer...))
		return
	}
	replies, ok := optionReplies[cmd]
	if !ok {
		return
	}
	reply := replies[1]
	if agreedOptions[cmd][opt] {
		reply = replies[0]
	}
	_ = s.writeCommand(reply, opt)
}

// readSubnegotiation reads up to IAC SE, unescaping doubled IAC bytes.
func (s *TelnetSession) readSubnegotiation() (byte, []byte, error) {
	opt, err := s.reader.ReadByte()
	if err != nil {
		return 0, nil, err
	}
	var payload []byte
	for {
		b, err := s.reader.ReadByte()
		if err != nil {
			return 0, nil, err
		}
		if b != telnetIAC {
			payload = append(payload, b)
			continue
		}
		next, err := s.reader.ReadByte()
		if err != nil {
			return 0, nil, err
		}
		switch next {
		case telnetSE:
			return opt, payload, nil
		case telnetIAC:
			payload = append(payload, telnetIAC)
		}
	}
}

func (s *TelnetSession) applySubnegotiation(opt byte, payload []byte) {
	switch opt {
	case telnetOptTerminalType:
		if len(payload) > 1 && payload[0] == terminalTypeIs {
			s.term = strings.ToUpper(string(payload[1:]))
		}
	case telnetOptWindowSize:
		if len(payload) >= 4 {
			s.width = int(payload[0])<<8 | int(payload[1])
			s.height = int(payload[2])<<8 | int(payload[3])
		}
	case telnetOptCharset:
		s.handleCharset(payload)
	}
}

func (s *TelnetSession) handleCharset(payload []byte) {
	if len(payload) == 0 {
		return
	}
	switch payload[0] {
	case charsetAccepted:
		s.useCharset(sanitizeTelnetString(payload[1:]))
	case charsetRequest:
		for _, name := range parseCharsetList(sanitizeTelnetString(payload[1:])) {
			if s.useCharset(name) {
				_ = s.writeSubnegotiation(telnetOptCharset, append([]byte{charsetAccepted}, name...))
				return
			}
		}
		_ = s.writeSubnegotiation(telnetOptCharset, []byte{charsetRejected})
	}
}

func (s *TelnetSession) useCharset(name string) bool {
	cm, ok := lookupCharset(name)
	if !ok {
		return false
	}
	s.mu.Lock()
	s.cmap = cm
	s.charset = strings.TrimSpace(name)
	s.mu.Unlock()
	return true
}

func (s *TelnetSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}

func (s *TelnetSession) Size() (int, int) {
	return s.width, s.height
}

func (s *TelnetSession) Terminal() string {
	return s.term
}

// Charset reports the character set the client agreed to.
func (s *TelnetSession) Charset() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.charset
}
