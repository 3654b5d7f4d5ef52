package events

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/meower-media/reactions/pkg/api/events/packets"
)

type Packet struct {
	Nonce     int64
	CreatedAt int64

	JsonEncoded []byte
}

func createPacket(server *Server, cmd string, val interface{}) (*Packet, error) {
	var p = Packet{
		Nonce:     server.getNextNonce(),
		CreatedAt: time.Now().UnixMilli(),
	}
	var err error

	p.JsonEncoded, err = json.Marshal(&packets.Packet{
		Cmd:   cmd,
		Val:   val,
		Nonce: strconv.FormatInt(p.Nonce, 10),
	})
	if err != nil {
		return nil, err
	}

	return &p, nil
}
