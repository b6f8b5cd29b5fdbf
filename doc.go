// Package hashtab generates binary lookup tables that map truncated
// cryptographic digests back to their plaintext's byte offset in a
// wordlist, for accelerating reverse lookup of hashes against a known
// dictionary.
//
// A table is a concatenation of fixed 14-byte records: an 8-byte digest
// prefix (right-padded with zeros for short digests) followed by a 6-byte
// little-endian wordlist offset. There is no header, footer, or delimiter;
// every 14 bytes is one record, in wordlist order, and the consumer must
// know which algorithm produced the keys.
//
// # Basic Usage
//
// Building a table:
//
//	registry := hashtab.NewRegistry(hashtab.AllCapabilities())
//	algo, err := registry.Lookup("md5")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	builder, err := hashtab.NewBuilder(ctx, "md5.hidx", totalWords, algo)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for word, offset := range wordlist {
//	    if err := builder.AddWord(word, offset); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//	if err := builder.Finish(); err != nil {
//	    log.Fatal(err)
//	}
//
// Streaming to an arbitrary sink instead of a file:
//
//	src := hashtab.NewWordScanner(wordlistFile)
//	n, err := hashtab.WriteTable(ctx, out, src, algo)
//
// Reading records back:
//
//	table, err := hashtab.OpenTable("md5.hidx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer table.Close()
//	key, offset := table.Record(0)
//
// # Package Structure
//
//   - Algorithms: algorithm.go (Registry, Capabilities, descriptor adapter),
//     internal/legacy/ (salted legacy password-hash primitives)
//   - Encoding: record.go (key/offset/record packing)
//   - Building: builder.go (NewBuilder, AddWord, Finish), table.go
//     (WriteTable), table_writer.go (mmap output), builder_parallel.go
//   - Input: wordlist.go (WordSource, WordScanner)
//   - Reading: reader.go (OpenTable, Record)
//   - Platform: fallocate_*.go, prefault_*.go, fadvise_*.go
package hashtab
