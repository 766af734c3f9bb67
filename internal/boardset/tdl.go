package boardset

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/kpudding/doves-retrograde/internal/board"
)

// Save writes s to a `.tdl` file at path: 256 shard records, one per
// possible top hash byte in ascending order, each holding its
// hash count, an xxhash64 checksum of the raw hash bytes, and the
// hashes themselves in ascending order. The whole stream is wrapped
// in zstd, since a fully-populated 12-piece win set runs into the
// hundreds of megabytes uncompressed.
func Save(path string, s *BoardSet) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("boardset: create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	zw, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("boardset: open zstd writer for %s: %w", path, err)
	}
	defer func() {
		if cerr := zw.Close(); err == nil {
			err = cerr
		}
	}()

	bw := bufio.NewWriter(zw)
	shards := s.sortedShardsByByte()
	for i := 0; i < numShards; i++ {
		if err := writeShard(bw, shards[i]); err != nil {
			return fmt.Errorf("boardset: write shard %#02x of %s: %w", i, path, err)
		}
	}
	return bw.Flush()
}

func writeShard(w io.Writer, hashes []board.Hash) error {
	var header [12]byte
	binary.LittleEndian.PutUint32(header[0:4], uint32(len(hashes)))

	payload := make([]byte, 8*len(hashes))
	digest := xxhash.New()
	for i, h := range hashes {
		binary.LittleEndian.PutUint64(payload[i*8:i*8+8], uint64(h))
	}
	digest.Write(payload)
	binary.LittleEndian.PutUint64(header[4:12], digest.Sum64())

	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	if len(payload) == 0 {
		return nil
	}
	_, err := w.Write(payload)
	return err
}

// sortedShardsByByte is sortedShards but indexed by shard byte
// (including empty shards as nil), so Save can emit all 256 records
// unconditionally.
func (s *BoardSet) sortedShardsByByte() [256][]board.Hash {
	var out [256][]board.Hash
	for i, m := range s.shards {
		if len(m) == 0 {
			continue
		}
		vals := make([]board.Hash, 0, len(m))
		for h := range m {
			vals = append(vals, h)
		}
		sortHashes(vals)
		out[i] = vals
	}
	return out
}

// Load reads every hash out of a `.tdl` file into a new BoardSet.
func Load(path string) (*BoardSet, error) {
	return LoadFilter(path, nil)
}

// LoadFilter reads a `.tdl` file, inserting only hashes for which
// pred(h) is true. A nil pred behaves like Load.
func LoadFilter(path string, pred func(board.Hash) bool) (*BoardSet, error) {
	capHint, err := RequiredCapacity(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("boardset: open %s: %w", path, err)
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("boardset: open zstd reader for %s: %w", path, err)
	}
	defer zr.Close()

	out := NewWithCapacity(capHint)
	br := bufio.NewReader(zr)
	for i := 0; i < numShards; i++ {
		if err := readShard(br, out, pred); err != nil {
			return nil, fmt.Errorf("boardset: read shard %#02x of %s: %w", i, path, err)
		}
	}
	return out, nil
}

func readShard(r io.Reader, into *BoardSet, pred func(board.Hash) bool) error {
	var header [12]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return err
	}
	count := binary.LittleEndian.Uint32(header[0:4])
	wantChecksum := binary.LittleEndian.Uint64(header[4:12])
	if count == 0 {
		return nil
	}

	payload := make([]byte, 8*count)
	if _, err := io.ReadFull(r, payload); err != nil {
		return err
	}
	if got := xxhash.Sum64(payload); got != wantChecksum {
		return fmt.Errorf("checksum mismatch: got %#x, want %#x", got, wantChecksum)
	}

	for i := uint32(0); i < count; i++ {
		h := board.Hash(binary.LittleEndian.Uint64(payload[i*8 : i*8+8]))
		if pred == nil || pred(h) {
			into.Insert(h)
		}
	}
	return nil
}

// RequiredCapacity returns an exact upper bound on the number of
// hashes a `.tdl` file holds, summed from the 256 shard headers'
// count fields. The hash payloads themselves are never decoded, but
// since the file is a single zstd stream with no seek index, each
// payload still has to be decompressed and discarded (io.CopyN into
// io.Discard) to reach the next header: the cost is O(1) in decoding
// work, not in bytes read off the underlying compressed stream.
func RequiredCapacity(path string) (Capacity, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("boardset: open %s: %w", path, err)
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return 0, fmt.Errorf("boardset: open zstd reader for %s: %w", path, err)
	}
	defer zr.Close()

	br := bufio.NewReader(zr)
	var total Capacity
	for i := 0; i < numShards; i++ {
		var header [12]byte
		if _, err := io.ReadFull(br, header[:]); err != nil {
			return 0, fmt.Errorf("boardset: read header of shard %#02x: %w", i, err)
		}
		count := binary.LittleEndian.Uint32(header[0:4])
		total += Capacity(count)
		if count == 0 {
			continue
		}
		if _, err := io.CopyN(io.Discard, br, int64(count)*8); err != nil {
			return 0, fmt.Errorf("boardset: skip payload of shard %#02x: %w", i, err)
		}
	}
	return total, nil
}

// StreamHashes calls fn once per hash stored in a `.tdl` file, without
// ever materializing a BoardSet. It exists for callers that only need
// to derive something small and bounded from a file's contents (e.g.
// the distinct partition keys present in an oracle file) and would
// otherwise pay for a full in-memory load just to throw the set away.
func StreamHashes(path string, fn func(board.Hash)) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("boardset: open %s: %w", path, err)
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return fmt.Errorf("boardset: open zstd reader for %s: %w", path, err)
	}
	defer zr.Close()

	br := bufio.NewReader(zr)
	for i := 0; i < numShards; i++ {
		var header [12]byte
		if _, err := io.ReadFull(br, header[:]); err != nil {
			return fmt.Errorf("boardset: read header of shard %#02x in %s: %w", i, path, err)
		}
		count := binary.LittleEndian.Uint32(header[0:4])
		if count == 0 {
			continue
		}
		payload := make([]byte, 8*count)
		if _, err := io.ReadFull(br, payload); err != nil {
			return fmt.Errorf("boardset: read payload of shard %#02x in %s: %w", i, path, err)
		}
		for j := uint32(0); j < count; j++ {
			fn(board.Hash(binary.LittleEndian.Uint64(payload[j*8 : j*8+8])))
		}
	}
	return nil
}

// RequiredCapacityFilter returns an upper bound usable for reserving
// a LoadFilter call's destination set. Since the predicate can only
// be evaluated by decoding each hash, the bound is the same total
// count RequiredCapacity reports; LoadFilter never needs to reserve
// more than that.
func RequiredCapacityFilter(path string, _ func(board.Hash) bool) (Capacity, error) {
	return RequiredCapacity(path)
}

// StreamChunks reads a `.tdl` file shard by shard, like StreamHashes,
// but buffers hashes into slices of at most chunkSize and invokes fn
// once per full buffer (plus a final, possibly shorter, buffer at
// EOF), rather than materializing the whole file's contents at once.
// A shard's raw payload is still read in one piece (the format gives
// no finer seek point within a shard), so resident memory also holds
// one shard's bytes; a shard larger than chunkSize is handed to fn
// across several chunks.
//
// fn's error, if any, stops iteration immediately and is returned to
// the caller. chunkSize <= 0 delivers the whole file as one chunk.
func StreamChunks(path string, chunkSize int, fn func([]board.Hash) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("boardset: open %s: %w", path, err)
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return fmt.Errorf("boardset: open zstd reader for %s: %w", path, err)
	}
	defer zr.Close()

	br := bufio.NewReader(zr)
	buf := make([]board.Hash, 0, chunkSizeOrShard(chunkSize))
	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		if err := fn(buf); err != nil {
			return err
		}
		buf = buf[:0]
		return nil
	}

	for i := 0; i < numShards; i++ {
		var header [12]byte
		if _, err := io.ReadFull(br, header[:]); err != nil {
			return fmt.Errorf("boardset: read header of shard %#02x in %s: %w", i, path, err)
		}
		count := binary.LittleEndian.Uint32(header[0:4])
		if count == 0 {
			continue
		}
		payload := make([]byte, 8*count)
		if _, err := io.ReadFull(br, payload); err != nil {
			return fmt.Errorf("boardset: read payload of shard %#02x in %s: %w", i, path, err)
		}
		for j := uint32(0); j < count; j++ {
			buf = append(buf, board.Hash(binary.LittleEndian.Uint64(payload[j*8:j*8+8])))
			if chunkSize > 0 && len(buf) >= chunkSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
	}
	return flush()
}

func chunkSizeOrShard(chunkSize int) int {
	if chunkSize > 0 {
		return chunkSize
	}
	return 1024
}
