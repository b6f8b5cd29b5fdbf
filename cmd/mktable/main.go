// Mktable generates a digest lookup table from a newline-delimited
// wordlist.
//
// Usage:
//
//	go run ./cmd/mktable -wordlist rockyou.txt -out rockyou-md5.hidx -algo md5
//
// Flags:
//
//	-wordlist  Path to the wordlist file (required)
//	-out       Output table path (default: <wordlist>.<algo>.hidx)
//	-algo      Algorithm key, see -list (default: md5)
//	-workers   Number of parallel digest workers (default: 1)
//	-list      Print available algorithm keys and exit
//	-quiet     Suppress progress output
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/dictsearch/hashtab"
)

// progressInterval is how many words pass between progress lines.
const progressInterval = 1_000_000

func main() {
	wordlistFlag := flag.String("wordlist", "", "path to the wordlist file")
	outFlag := flag.String("out", "", "output table path")
	algoFlag := flag.String("algo", "md5", "algorithm key (see -list)")
	workersFlag := flag.Int("workers", 1, "number of parallel digest workers")
	listFlag := flag.Bool("list", false, "print available algorithm keys and exit")
	quietFlag := flag.Bool("quiet", false, "suppress progress output")
	flag.Parse()

	registry := hashtab.NewRegistry(hashtab.AllCapabilities())

	if *listFlag {
		for _, key := range registry.Keys() {
			algo, err := registry.Lookup(key)
			if err != nil {
				fatalf("lookup %q: %v", key, err)
			}
			fmt.Printf("%-24s %s\n", algo.Key, algo.Name)
		}
		return
	}

	if *wordlistFlag == "" {
		flag.Usage()
		os.Exit(2)
	}

	algo, err := registry.Lookup(*algoFlag)
	if err != nil {
		fatalf("%v (use -list to see available keys)", err)
	}

	output := *outFlag
	if output == "" {
		output = fmt.Sprintf("%s.%s.hidx", *wordlistFlag, algo.Key)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	totalWords, err := countWordlist(*wordlistFlag)
	if err != nil {
		fatalf("count wordlist: %v", err)
	}
	if !*quietFlag {
		fmt.Fprintf(os.Stderr, "%d words in %s (counted in %v)\n",
			totalWords, *wordlistFlag, time.Since(start).Round(time.Millisecond))
	}

	start = time.Now()
	if err := buildTable(ctx, *wordlistFlag, output, totalWords, algo, *workersFlag, *quietFlag); err != nil {
		fatalf("build table: %v", err)
	}
	if !*quietFlag {
		fmt.Fprintf(os.Stderr, "wrote %s: %d records, %d bytes in %v\n",
			output, totalWords, totalWords*hashtab.RecordSize, time.Since(start).Round(time.Millisecond))
	}
}

// countWordlist runs the pre-sizing pass over the wordlist.
func countWordlist(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return hashtab.CountWords(hashtab.NewWordScanner(f))
}

// buildTable runs the generation pass: it re-reads the wordlist and feeds
// every word to the builder.
func buildTable(ctx context.Context, wordlist, output string, totalWords uint64,
	algo *hashtab.Algorithm, workers int, quiet bool) error {
	f, err := os.Open(wordlist)
	if err != nil {
		return err
	}
	defer f.Close()

	builder, err := hashtab.NewBuilder(ctx, output, totalWords, algo,
		hashtab.WithWorkers(workers))
	if err != nil {
		return err
	}
	defer builder.Close()

	src := hashtab.NewWordScanner(f)
	var added uint64
	for {
		word, offset, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if err := builder.AddWord(word, offset); err != nil {
			return err
		}
		added++
		if !quiet && added%progressInterval == 0 {
			fmt.Fprintf(os.Stderr, "  %d/%d words\n", added, totalWords)
		}
	}

	return builder.Finish()
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "mktable: "+format+"\n", args...)
	os.Exit(1)
}
