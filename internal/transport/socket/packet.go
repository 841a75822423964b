package socket

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// Engine.IO v4 packet types.
const (
	eioOpen    = '0'
	eioClose   = '1'
	eioPing    = '2'
	eioPong    = '3'
	eioMessage = '4'
)

// Socket.IO packet types, carried inside an Engine.IO message.
const (
	sioConnect      = '0'
	sioDisconnect   = '1'
	sioEvent        = '2'
	sioConnectError = '4'
)

var errMalformedPacket = errors.New("malformed socket.io packet")

type packet struct {
	eio       byte
	sio       byte
	namespace string
	data      json.RawMessage
}

// decodePacket splits a text frame such as `42/chat,["receive_message",{...}]`.
func decodePacket(frame string) (packet, error) {
	if frame == "" {
		return packet{}, errMalformedPacket
	}
	p := packet{eio: frame[0], namespace: "/"}
	rest := frame[1:]
	if p.eio != eioMessage {
		p.data = json.RawMessage(rest)
		return p, nil
	}
	if rest == "" {
		return packet{}, errMalformedPacket
	}

	p.sio = rest[0]
	rest = rest[1:]
	if strings.HasPrefix(rest, "/") {
		ns, tail, found := strings.Cut(rest, ",")
		p.namespace = ns
		if !found {
			tail = ""
		}
		rest = tail
	}
	if rest != "" {
		p.data = json.RawMessage(rest)
	}
	return p, nil
}

func encodeConnect(namespace string, auth any) (string, error) {
	frame := string([]byte{eioMessage, sioConnect}) + namespacePrefix(namespace)
	if auth == nil {
		return frame, nil
	}
	b, err := json.Marshal(auth)
	if err != nil {
		return "", errors.Wrap(err, "socket.encodeConnect: ")
	}
	return frame + string(b), nil
}

func encodeEvent(namespace, event string, payload any) (string, error) {
	args := []any{event}
	if payload != nil {
		args = append(args, payload)
	}
	b, err := json.Marshal(args)
	if err != nil {
		return "", errors.Wrap(err, "socket.encodeEvent: ")
	}
	return string([]byte{eioMessage, sioEvent}) + namespacePrefix(namespace) + string(b), nil
}

func namespacePrefix(namespace string) string {
	if namespace == "" || namespace == "/" {
		return ""
	}
	return namespace + ","
}

// eventArgs returns the event name and its first argument.
func eventArgs(data json.RawMessage) (string, json.RawMessage, error) {
	var args []json.RawMessage
	if err := json.Unmarshal(data, &args); err != nil || len(args) == 0 {
		return "", nil, errMalformedPacket
	}
	var name string
	if err := json.Unmarshal(args[0], &name); err != nil {
		return "", nil, errMalformedPacket
	}
	if len(args) == 1 {
		return name, nil, nil
	}
	return name, args[1], nil
}
