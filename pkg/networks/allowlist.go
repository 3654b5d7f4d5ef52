package networks

import (
	"errors"
	"net"

	"github.com/yl2chen/cidranger"
)

var ErrInvalidAddress = errors.New("invalid address")

// Allowlist answers whether a remote address falls inside one of the
// configured networks. An empty allowlist admits everyone.
type Allowlist struct {
	ranger cidranger.Ranger
	size   int
}

func NewAllowlist(cidrs []string) (*Allowlist, error) {
	a := &Allowlist{ranger: cidranger.NewPCTrieRanger()}
	for _, cidr := range cidrs {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			return nil, err
		}
		if err := a.ranger.Insert(cidranger.NewBasicRangerEntry(*network)); err != nil {
			return nil, err
		}
		a.size++
	}
	return a, nil
}

func (a *Allowlist) Empty() bool {
	return a == nil || a.size == 0
}

// Allows accepts either a bare IP or a host:port pair.
func (a *Allowlist) Allows(address string) (bool, error) {
	if a.Empty() {
		return true, nil
	}

	host := address
	if h, _, err := net.SplitHostPort(address); err == nil {
		host = h
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return false, ErrInvalidAddress
	}
	return a.ranger.Contains(ip)
}
