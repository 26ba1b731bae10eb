// Package collection implements Store, the per-user typed list that every
// domain store is built on.
//
// A Store keeps its items in memory and writes the whole snapshot through
// storage.Adapter after each change, before the change returns. The
// persisted value is a versioned envelope:
//
//	{"version": 1, "items": [...]}
//
// A bare JSON array is read as version 0. A value that fails to decode or
// migrate is discarded and the store starts empty. A value that cannot be
// read at all is left in place: the store starts empty but holds back its
// writes until a Load succeeds.
package collection
