package game

import (
	"encoding/binary"
	"encoding/hex"
	"strconv"
)

func fmtU32(v uint32) string {
	return strconv.FormatUint(uint64(v), 10)
}

func fmtU64(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func fmtHex(b []byte) string {
	return hex.EncodeToString(b)
}

func be4(v uint32) [4]byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return b
}
