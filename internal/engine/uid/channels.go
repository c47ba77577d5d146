package uid

import "go.trai.ch/stamp/internal/core/domain"

// Channel is one of the fingerprint channels accumulated per node.
type Channel uint8

const (
	// Structure hashes the identity and shape of commands.
	Structure Channel = iota
	// IncludeStructure hashes the structure of everything reachable via includes.
	IncludeStructure
	// Content hashes input bytes.
	Content
	// IncludeContent hashes the content of everything reachable via includes.
	IncludeContent

	numChannels
)

var channelNames = [numChannels]string{
	Structure:        "structure",
	IncludeStructure: "include_structure",
	Content:          "content",
	IncludeContent:   "include_content",
}

// String returns the channel name.
func (c Channel) String() string {
	if c < numChannels {
		return channelNames[c]
	}
	return "unknown"
}

// source selects what a fold takes from the edge target.
type source uint8

const (
	fromStructure source = iota
	fromIncludeStructure
	fromContent
	fromIncludeContent
	// fromName takes the target identity as text.
	fromName
)

type fold struct {
	from source
	into Channel
}

// channelTable lists, per edge kind, which target fingerprints feed which channels of the source.
var channelTable = map[domain.EdgeKind][]fold{
	domain.EdgeBuildFrom: {
		{fromStructure, Structure},
		{fromIncludeStructure, IncludeStructure},
		{fromContent, Content},
		{fromIncludeContent, Content},
		{fromIncludeContent, IncludeContent},
	},
	domain.EdgeBuildCommand: {
		{fromStructure, Structure},
		{fromIncludeStructure, IncludeStructure},
		{fromContent, Content},
		{fromIncludeContent, IncludeContent},
	},
	domain.EdgeInnerCommand: {
		{fromStructure, Structure},
		{fromIncludeStructure, IncludeStructure},
	},
	domain.EdgeInclude: {
		{fromIncludeStructure, IncludeStructure},
		{fromIncludeContent, IncludeContent},
	},
	domain.EdgePeer: {
		{fromIncludeStructure, IncludeStructure},
		{fromIncludeContent, IncludeContent},
	},
	domain.EdgeProperty: {
		{fromName, Structure},
		{fromContent, IncludeContent},
	},
	domain.EdgeOutTogether: {
		{fromName, Structure},
	},
	domain.EdgeOutTogetherBack: {
		{fromName, IncludeStructure},
	},
	domain.EdgeSearch: {
		{fromName, IncludeStructure},
	},
}

func channelOf(rec *domain.UidRecord, c Channel) domain.Fingerprint {
	switch c {
	case Structure:
		return rec.Structure
	case IncludeStructure:
		return rec.IncludeStructure
	case Content:
		return rec.Content
	case IncludeContent:
		return rec.IncludeContent
	default:
		return domain.Fingerprint{}
	}
}

func sourceOf(rec *domain.UidRecord, s source) domain.Fingerprint {
	switch s {
	case fromStructure:
		return rec.Structure
	case fromIncludeStructure:
		return rec.IncludeStructure
	case fromContent:
		return rec.Content
	case fromIncludeContent:
		return rec.IncludeContent
	default:
		return domain.Fingerprint{}
	}
}

func signatureChannel(sig *domain.LoopSignature, c Channel) domain.Fingerprint {
	switch c {
	case Structure:
		return sig.Structure
	case IncludeStructure:
		return sig.IncludeStructure
	case Content:
		return sig.Content
	case IncludeContent:
		return sig.IncludeContent
	default:
		return domain.Fingerprint{}
	}
}
