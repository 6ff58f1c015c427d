package app

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"gopkg.in/op/go-logging.v1"

	"sae/internal/protocol/ratchet"
	"sae/internal/transport"
)

// Peer is the session surface the chat loop needs. Both the authenticated
// manager and the basic session satisfy it.
type Peer interface {
	Send(plaintext []byte) error
	Receive() ([]byte, error)
	Close() error
}

// ChatMessage is the application payload exchanged inside the encrypted
// channel. The username travels encrypted, never on the wire in the clear.
type ChatMessage struct {
	Sender  string `json:"sender"`
	Content string `json:"content"`
}

// EncodeChatMessage marshals a message for the session layer.
func EncodeChatMessage(m ChatMessage) ([]byte, error) {
	return json.Marshal(m)
}

// DecodeChatMessage unmarshals a received payload.
func DecodeChatMessage(data []byte) (ChatMessage, error) {
	var m ChatMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return ChatMessage{}, fmt.Errorf("app: decoding chat message: %w", err)
	}
	return m, nil
}

// RunChat drives a line-oriented conversation: every line read from input is
// sent as one chat message, every received message is printed to output. It
// returns when input reaches EOF, the user types /quit, or the link drops.
// Replayed or tampered frames are logged and skipped; they never end the chat.
func RunChat(peer Peer, username string, input io.Reader, output io.Writer, logger *logging.Logger) error {
	recvErr := make(chan error, 1)
	go func() { recvErr <- receiveLoop(peer, output, logger) }()

	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024)
	for {
		select {
		case err := <-recvErr:
			_ = peer.Close()
			return err
		default:
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		if line == "/quit" {
			break
		}
		payload, err := EncodeChatMessage(ChatMessage{Sender: username, Content: line})
		if err != nil {
			_ = peer.Close()
			<-recvErr
			return err
		}
		if err := peer.Send(payload); err != nil {
			_ = peer.Close()
			<-recvErr
			return fmt.Errorf("app: sending message: %w", err)
		}
	}
	scanErr := scanner.Err()
	closeErr := peer.Close()
	if err := <-recvErr; err != nil {
		return err
	}
	if scanErr != nil {
		return scanErr
	}
	return closeErr
}

func receiveLoop(peer Peer, output io.Writer, logger *logging.Logger) error {
	for {
		payload, err := peer.Receive()
		if err != nil {
			switch {
			case errors.Is(err, ratchet.ErrMessageAlreadyReceived):
				logger.Warning("dropping replayed message")
				continue
			case errors.Is(err, ratchet.ErrDecryptionFailed),
				errors.Is(err, ratchet.ErrInvalidMessage),
				errors.Is(err, ratchet.ErrInvalidTimestamp),
				errors.Is(err, ratchet.ErrMessageTooOld):
				logger.Warningf("dropping undecryptable message: %v", err)
				continue
			case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF),
				errors.Is(err, net.ErrClosed), errors.Is(err, transport.ErrClosed):
				fmt.Fprintln(output, "* peer disconnected")
				return nil
			}
			return err
		}
		msg, err := DecodeChatMessage(payload)
		if err != nil {
			logger.Warningf("malformed payload from peer: %v", err)
			continue
		}
		fmt.Fprintf(output, "[%s] %s\n", msg.Sender, msg.Content)
	}
}
