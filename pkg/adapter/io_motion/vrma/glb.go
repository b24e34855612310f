// 指示: miu200521358
package vrma

import (
	"encoding/binary"
	"fmt"
)

const (
	glbHeaderLength   = 12
	glbChunkHeadSize  = 8
	glbMagic          = 0x46546C67
	glbVersion        = 2
	glbJSONChunkType  = 0x4E4F534A
	glbBINChunkType   = 0x004E4942
	glbMinValidLength = glbHeaderLength + glbChunkHeadSize
)

// parseGLBChunks はGLBバイト列からJSON/BINチャンクを抽出する。
func parseGLBChunks(sourceBytes []byte) ([]byte, []byte, error) {
	if len(sourceBytes) < glbMinValidLength {
		return nil, nil, fmt.Errorf("GLBヘッダが不足しています")
	}
	if binary.LittleEndian.Uint32(sourceBytes[0:4]) != glbMagic {
		return nil, nil, fmt.Errorf("GLBマジックが不正です")
	}
	if binary.LittleEndian.Uint32(sourceBytes[4:8]) != glbVersion {
		return nil, nil, fmt.Errorf("GLBバージョンが未対応です")
	}

	totalLength := int(binary.LittleEndian.Uint32(sourceBytes[8:12]))
	if totalLength <= 0 || totalLength > len(sourceBytes) {
		return nil, nil, fmt.Errorf("GLB全体長が不正です")
	}

	var jsonChunk []byte
	var binChunk []byte
	offset := glbHeaderLength
	for offset+glbChunkHeadSize <= totalLength {
		chunkLength := int(binary.LittleEndian.Uint32(sourceBytes[offset : offset+4]))
		chunkType := binary.LittleEndian.Uint32(sourceBytes[offset+4 : offset+8])
		chunkStart := offset + glbChunkHeadSize
		chunkEnd := chunkStart + chunkLength
		if chunkLength < 0 || chunkEnd > totalLength {
			return nil, nil, fmt.Errorf("GLBチャンク長が不正です")
		}
		chunkBytes := sourceBytes[chunkStart:chunkEnd]
		switch chunkType {
		case glbJSONChunkType:
			jsonChunk = append([]byte(nil), chunkBytes...)
		case glbBINChunkType:
			if len(binChunk) == 0 {
				binChunk = append([]byte(nil), chunkBytes...)
			}
		}
		offset = chunkEnd
	}
	if len(jsonChunk) == 0 {
		return nil, nil, fmt.Errorf("GLB JSONチャンクが見つかりません")
	}
	return jsonChunk, binChunk, nil
}
