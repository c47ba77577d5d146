package domain

import "go.trai.ch/zerr"

var (
	// ErrDuplicateNode is returned when attempting to add a node whose identity already exists.
	ErrDuplicateNode = zerr.New("node already exists")

	// ErrNodeNotFound is returned when a requested node is not part of the graph.
	ErrNodeNotFound = zerr.New("node not found")

	// ErrUnknownNodeKind is returned when a node kind name cannot be resolved.
	ErrUnknownNodeKind = zerr.New("unknown node kind")

	// ErrUnknownEdgeKind is returned when an edge kind name cannot be resolved.
	ErrUnknownEdgeKind = zerr.New("unknown edge kind")

	// ErrConfiguration marks fatal errors caused by the build description, e.g. macro expansion.
	ErrConfiguration = zerr.New("configuration error")

	// ErrMacroUnevaluable is returned when a command references a macro that cannot be evaluated.
	ErrMacroUnevaluable = zerr.New("macro cannot be evaluated")

	// ErrVariableRecursion is returned when a variable expands to itself.
	ErrVariableRecursion = zerr.New("variable expands recursively")

	// ErrDependencyLoop is returned when a cycle goes through an edge kind that may not close a loop.
	ErrDependencyLoop = zerr.New("dependency loop")

	// ErrMissingContent is returned when a leaf file has no content fingerprint.
	ErrMissingContent = zerr.New("missing content fingerprint")

	// ErrCampaignAborted is returned when committing a campaign that did not finish.
	ErrCampaignAborted = zerr.New("campaign aborted")

	// ErrIncompleteRecord is returned when persisting a record that is not completed.
	ErrIncompleteRecord = zerr.New("record is not completed")

	// ErrLoopNotReady is returned when a loop is closed before all of its dependencies completed.
	ErrLoopNotReady = zerr.New("loop dependencies are not completed")

	// ErrStoreReadFailed is returned when the cache file cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read uid cache")

	// ErrStoreWriteFailed is returned when the cache file cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write uid cache")

	// ErrConfigReadFailed is returned when the configuration file cannot be read or parsed.
	ErrConfigReadFailed = zerr.New("failed to read configuration")

	// ErrGraphReadFailed is returned when the graph description cannot be read or parsed.
	ErrGraphReadFailed = zerr.New("failed to read graph description")

	// ErrSnapshotWriteFailed is returned when the change snapshot cannot be written.
	ErrSnapshotWriteFailed = zerr.New("failed to write change snapshot")

	// ErrContentReadFailed is returned when a file's content cannot be fingerprinted.
	ErrContentReadFailed = zerr.New("failed to read file content")
)
