package events

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

var ErrEmptyPacket = errors.New("empty packet")

// ChatChannel is the pub/sub channel carrying a chat's events.
func ChatChannel(chatId int64) string {
	return fmt.Sprint("c", chatId)
}

// ChatChannelPattern matches every chat channel.
const ChatChannelPattern = "c*"

// Marshal encodes v with msgpack and appends the op code.
func Marshal(op uint8, v interface{}) ([]byte, error) {
	marshaledPacket, err := msgpack.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(marshaledPacket, op), nil
}

// Split separates a packet into its op code and msgpack payload.
func Split(packet []byte) (uint8, []byte, error) {
	if len(packet) == 0 {
		return 0, nil, ErrEmptyPacket
	}
	return packet[len(packet)-1], packet[:len(packet)-1], nil
}
