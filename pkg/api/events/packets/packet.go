package packets

type Packet struct {
	Cmd   string      `json:"cmd"`
	Val   interface{} `json:"val"`
	Nonce string      `json:"nonce,omitempty"`
}
