package keelson

import (
	"fmt"
	"strings"
)

// Keelson key expression formats:
//
//	{base_path}/@v0/{entity_id}/pubsub/{subject}/{source_id}
//	{base_path}/@v0/{entity_id}/@rpc/{procedure}/{responder_id}
//
// A pub/sub key may carry a trailing "/@target/{target_id}" suffix when the
// interaction is directed at a single consumer. The source_id is the only
// part that may itself contain "/" separators.
const (
	keyVersion   = "@v0"
	pubSubMarker = "pubsub"
	rpcMarker    = "@rpc"
	targetMarker = "@target"
)

// PubSubKey is a parsed publish-subscribe key expression.
type PubSubKey struct {
	BasePath string
	EntityID string
	Subject  string
	SourceID string
	TargetID string // empty unless the key carries an @target suffix
}

func (k PubSubKey) String() string {
	key := strings.Join(
		[]string{k.BasePath, keyVersion, k.EntityID, pubSubMarker, k.Subject, k.SourceID},
		"/",
	)
	if k.TargetID != "" {
		key += "/" + targetMarker + "/" + k.TargetID
	}
	return key
}

// RPCKey is a parsed request-reply key expression.
type RPCKey struct {
	BasePath    string
	EntityID    string
	Procedure   string
	ResponderID string
}

func (k RPCKey) String() string {
	return strings.Join(
		[]string{k.BasePath, keyVersion, k.EntityID, rpcMarker, k.Procedure, k.ResponderID},
		"/",
	)
}

// ConstructPubSubKey builds the key expression for a publish-subscribe
// interaction.
func ConstructPubSubKey(basePath, entityID, subject, sourceID string) string {
	return PubSubKey{
		BasePath: basePath,
		EntityID: entityID,
		Subject:  subject,
		SourceID: sourceID,
	}.String()
}

// ConstructTargetedPubSubKey builds a pub/sub key directed at a single
// target entity.
func ConstructTargetedPubSubKey(basePath, entityID, subject, sourceID, targetID string) string {
	return PubSubKey{
		BasePath: basePath,
		EntityID: entityID,
		Subject:  subject,
		SourceID: sourceID,
		TargetID: targetID,
	}.String()
}

// ConstructRPCKey builds the key expression for a request-reply interaction.
func ConstructRPCKey(basePath, entityID, procedure, responderID string) string {
	return RPCKey{
		BasePath:    basePath,
		EntityID:    entityID,
		Procedure:   procedure,
		ResponderID: responderID,
	}.String()
}

// ParsePubSubKey parses a pub/sub key expression. Keys that do not match the
// format fail with ErrMalformedKey.
func ParsePubSubKey(key string) (PubSubKey, error) {
	parts := strings.Split(key, "/")
	if len(parts) < 6 || parts[1] != keyVersion || parts[3] != pubSubMarker {
		return PubSubKey{}, fmt.Errorf("%w: %q is not a pub/sub key", ErrMalformedKey, key)
	}

	k := PubSubKey{
		BasePath: parts[0],
		EntityID: parts[2],
		Subject:  parts[4],
	}

	rest := parts[5:]
	for i, part := range rest {
		if part != targetMarker {
			continue
		}
		// The @target marker claims exactly the last two segments.
		if i != len(rest)-2 {
			return PubSubKey{}, fmt.Errorf("%w: %q has a misplaced %s segment", ErrMalformedKey, key, targetMarker)
		}
		k.TargetID = rest[len(rest)-1]
		rest = rest[:i]
		break
	}

	k.SourceID = strings.Join(rest, "/")

	if k.BasePath == "" || k.EntityID == "" || k.Subject == "" || k.SourceID == "" {
		return PubSubKey{}, fmt.Errorf("%w: %q has empty segments", ErrMalformedKey, key)
	}

	return k, nil
}

// ParseRPCKey parses a request-reply key expression.
func ParseRPCKey(key string) (RPCKey, error) {
	parts := strings.Split(key, "/")
	if len(parts) != 6 || parts[1] != keyVersion || parts[3] != rpcMarker {
		return RPCKey{}, fmt.Errorf("%w: %q is not an rpc key", ErrMalformedKey, key)
	}

	k := RPCKey{
		BasePath:    parts[0],
		EntityID:    parts[2],
		Procedure:   parts[4],
		ResponderID: parts[5],
	}

	if k.BasePath == "" || k.EntityID == "" || k.Procedure == "" || k.ResponderID == "" {
		return RPCKey{}, fmt.Errorf("%w: %q has empty segments", ErrMalformedKey, key)
	}

	return k, nil
}

// SubjectFromPubSubKey extracts the subject from a pub/sub key expression.
func SubjectFromPubSubKey(key string) (string, error) {
	k, err := ParsePubSubKey(key)
	if err != nil {
		return "", err
	}
	return k.Subject, nil
}
