/*
Package hamt provides an immutable, versioned, diffable map from
byte-string keys to values, implemented as a persistent Hash Array
Mapped Trie (HAMT). Updates return new maps that share all unmodified
parts of the trie with the map they came from, so keeping old versions
around is cheap, and handing a map to another goroutine needs no
locking.

Uses

- Snapshots of state that readers can hold while writers move on

- Diffing of versions, in time proportional to what changed

- Content digests, to tell whether two replicas hold the same data

- Efficient copy-on-write alternative to Go builtin map

How it works

Each key is hashed to a fixed-width digest. The digest is consumed a few
bits at a time (BitWidth, 5 by default), and each group of bits selects
a child of a branch node. Branches store only the children that exist,
indexed through a bitmap, so sparse branches stay small. Entries live in
leaves; keys whose entire digests are equal share a collision node and
are told apart by comparing keys.

The trie is kept in a canonical form: a branch never holds a lone leaf
or collision, which is pulled up into its parent instead. The shape of
the trie therefore depends only on the set of keys it holds, not on the
order they were inserted or deleted in, which lets DiffIter and Equal
skip identical subtrees.

Root hashes the trie bottom up, like a Merkle tree, into one digest of
the map's contents. Equal contents give equal roots, whatever their
history. Branches remember their digests, so the root of an updated
map costs only the changed path.

Hashes and keys

The hash function is chosen per map with Config.Backend. The default,
murmur3, is fast but an adversary who controls keys can make them
collide; use Blake2b or SHA256 for keys from untrusted sources. Which
backends are available depends on build tags (hamt_noxxhash,
hamt_noblake2b, hamt_nosha256); asking for a missing one fails with
ErrUnsupportedBackend.

Config.KeyMode restricts keys to well-formed UTF-8 text (keys.UTF8), or
accepts any bytes (keys.Raw, the default). Invalid keys fail with
ErrInvalidEncoding and leave the map untouched.

Concurrency

A Map is never modified after it is returned, so any number of
goroutines may read it and derive new maps from it at the same time.
A Builder batches many updates without copying a path per update, but
belongs to a single goroutine until it publishes with Builder.Map.

Inspiration

Phil Bagwell, "Ideal Hash Trees", 2001, describes the structure. The
persistent variant is the one behind the maps of Clojure and Scala, and
https://github.com/bodil/im-rs, "Blazing fast immutable collection
datatypes for Rust", by Bodil Stokke, whose property tests are the model
for this package's.
*/
package hamt
