// Copyright (c) Elliot Nunn

// This library is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 2.1 of the License, or (at your option) any later version.

// This library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.

package sit

import "encoding/binary"

// CRC-16/ARC, used for both headers and forks
var crctab [256]uint16

func init() {
	for i := range uint16(256) {
		k := i
		for range 8 {
			if k&1 != 0 {
				k = (k >> 1) ^ 0xa001
			} else {
				k >>= 1
			}
		}
		crctab[i] = k
	}
}

func updateCRC16(crc uint16, buf []byte) uint16 {
	for _, ch := range buf {
		crc = crctab[byte(crc)^ch] ^ crc>>8
	}
	return crc
}

func calcCRC16(buf []byte) uint16 {
	return updateCRC16(0, buf)
}

// the CRC is stored big-endian immediately after the bytes it covers
func checkCRC16(buf []byte, crcField int) bool {
	return calcCRC16(buf[:crcField]) == binary.BigEndian.Uint16(buf[crcField:])
}
