package hue

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/wheelibin/phuey/internal/constants"
)

// Address is the network location of a bridge.
type Address struct {
	Host string
	Port int
}

// ParseAddress reads a bridge host. The bridge always listens on port 80,
// an explicit host:port is only honoured for local stand-ins.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Address{}, errors.New("bridge address is empty")
	}

	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return Address{Host: s, Port: constants.BridgePort}, nil
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return Address{}, fmt.Errorf("invalid bridge port %q", portStr)
	}
	return Address{Host: host, Port: port}, nil
}

func (a Address) String() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

func (a Address) url(uri string) string {
	return fmt.Sprintf("http://%s%s", a, uri)
}
