package domain

import "encoding/hex"

// UidRecord holds the fingerprints computed for a single node.
type UidRecord struct {
	// Structure reflects the identity and shape of the commands producing the node.
	Structure Fingerprint
	// IncludeStructure folds the structure of everything reachable via includes.
	IncludeStructure Fingerprint
	// Content reflects the bytes of the node's inputs.
	Content Fingerprint
	// IncludeContent folds the content of everything reachable via includes.
	IncludeContent Fingerprint
	// Full accumulates the node's own contribution and all of its channels.
	// It is the cache key for build actions.
	Full Fingerprint
	// Self reflects the node in isolation.
	Self Fingerprint
	// Completed is set once the record is final.
	Completed bool
}

// LoopID identifies a loop within one campaign.
type LoopID int

// LoopKey is the identity of a loop across campaigns, derived from its sorted membership.
type LoopKey Fingerprint

// String returns the hex form of the key.
func (k LoopKey) String() string {
	return hex.EncodeToString(k[:])
}

// LoopSignature is the shared contribution of a loop, folded into every member.
type LoopSignature struct {
	Structure        Fingerprint
	IncludeStructure Fingerprint
	Content          Fingerprint
	IncludeContent   Fingerprint
	// Members lists the member identities sorted by identity.
	Members []NodeID
	// Fingerprints lists the pre-loop Full fingerprint of each member, in Members order.
	Fingerprints []Fingerprint
	// DepsCount is the number of distinct nodes outside the loop that members depend on.
	DepsCount int
}

// TokenKind distinguishes literal command text from references to input files.
type TokenKind uint8

const (
	// TokenLiteral is plain command text.
	TokenLiteral TokenKind = iota + 1
	// TokenInput references an input node whose fingerprint is folded separately.
	TokenInput
)

// Token is a single element of an expanded command.
type Token struct {
	Kind  TokenKind
	Text  string
	Input NodeID
}

// CommandRepr is the canonical, order-stable representation of an expanded command.
type CommandRepr struct {
	Tokens []Token
}

// Literal returns a literal token.
func Literal(text string) Token {
	return Token{Kind: TokenLiteral, Text: text}
}

// InputRef returns a token referencing an input node.
func InputRef(id NodeID) Token {
	return Token{Kind: TokenInput, Input: id}
}
