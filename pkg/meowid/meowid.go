package meowid

import (
	"errors"
	"strconv"
	"sync"
	"time"
)

// MeowID Format:
// Timestamp (41-bits)
// Node ID (11-bits)
// Increment (11-bits)

type MeowID = int64

const MeowerEpoch int64 = 1577836800000 // 2020-01-01 12am GMT

const (
	TimestampBits = 41
	TimestampMask = (1 << TimestampBits) - 1

	NodeIdBits = 11
	NodeIdMask = (1 << NodeIdBits) - 1

	IncrementBits = 11
	IncrementMask = (1 << IncrementBits) - 1
)

var ErrInvalidNodeId = errors.New("node id out of range")

// Generator hands out increasing IDs for a single node.
type Generator struct {
	nodeId int64

	mu            sync.Mutex
	idIncrementTs int64
	idIncrement   int64

	now func() int64
}

func NewGenerator(nodeId int) (*Generator, error) {
	if nodeId < 0 || nodeId > NodeIdMask {
		return nil, ErrInvalidNodeId
	}
	return &Generator{
		nodeId: int64(nodeId),
		now:    func() int64 { return time.Now().UnixMilli() },
	}, nil
}

// ParseNodeId parses a NODE_ID style value, an empty string means node 0.
func ParseNodeId(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	nodeId, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if nodeId < 0 || nodeId > NodeIdMask {
		return 0, ErrInvalidNodeId
	}
	return nodeId, nil
}

func (g *Generator) GenId() MeowID {
	g.mu.Lock()
	defer g.mu.Unlock()

	// Get timestamp, never going backwards
	ts := g.now()
	if ts < g.idIncrementTs {
		ts = g.idIncrementTs
	}

	// Get increment
	if ts != g.idIncrementTs {
		g.idIncrementTs = ts
		g.idIncrement = 0
	} else if g.idIncrement >= IncrementMask {
		for ts <= g.idIncrementTs {
			ts = g.now()
		}
		g.idIncrementTs = ts
		g.idIncrement = 0
	} else {
		g.idIncrement += 1
	}

	// Construct ID
	id := (ts - MeowerEpoch) << (NodeIdBits + IncrementBits)
	id |= g.nodeId << IncrementBits
	id |= g.idIncrement

	return id
}

func Extract(id MeowID) struct {
	Timestamp int64
	NodeId    int64
	Increment int64
} {
	return struct {
		Timestamp int64
		NodeId    int64
		Increment int64
	}{
		Timestamp: ((id >> (NodeIdBits + IncrementBits)) & TimestampMask) + MeowerEpoch,
		NodeId:    (id >> IncrementBits) & NodeIdMask,
		Increment: id & IncrementMask,
	}
}
