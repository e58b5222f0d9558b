package canbits

import (
	"encoding/binary"
	"fmt"
)

// Linux SocketCAN layouts.
const (
	canFrameSize   = 16
	canFDFrameSize = 72

	canEffFlag = 0x80000000
	canRtrFlag = 0x40000000
	canEffMask = 0x1FFFFFFF
	canStdMask = 0x7FF

	canFDBrs = 0x01
	canFDEsi = 0x02
	canFDFdf = 0x04
)

// MarshalBinary encodes the frame as a SocketCAN "struct can_frame" (16 bytes)
// for classical frames or "struct canfd_frame" (72 bytes) for CAN FD frames,
// so the same logical frame can be sent on a real interface.
//
// Layout (little-endian can_id):
//
//	0..3  can_id (with EFF/RTR flags)
//	4     len (payload length)
//	5     classical: pad, FD: flags (BRS/ESI/FDF)
//	6     reserved
//	7     classical: len8_dlc for DLC 9..15, FD: reserved
//	8..   data bytes
func (f *Frame) MarshalBinary() ([]byte, error) {
	if err := f.flags.Validate(); err != nil {
		return nil, err
	}
	id := f.id
	if f.flags.Extended {
		id |= canEffFlag
	}
	if f.flags.RTR {
		id |= canRtrFlag
	}
	size := canFrameSize
	if f.flags.FD {
		size = canFDFrameSize
	}
	buf := make([]byte, size)
	binary.LittleEndian.PutUint32(buf[0:4], id)
	buf[4] = byte(f.dataLen)
	if f.flags.FD {
		flags := byte(canFDFdf)
		if f.flags.BRS {
			flags |= canFDBrs
		}
		if f.flags.ESI {
			flags |= canFDEsi
		}
		buf[5] = flags
	} else if f.dlc > 8 {
		buf[7] = f.dlc
	}
	copy(buf[8:], f.data[:f.dataLen])
	return buf, nil
}

// UnmarshalBinary decodes a frame from either SocketCAN layout, chosen by the
// buffer length.
func (f *Frame) UnmarshalBinary(data []byte) error {
	if len(data) != canFrameSize && len(data) != canFDFrameSize {
		return fmt.Errorf("canbits: need %d or %d bytes, got %d", canFrameSize, canFDFrameSize, len(data))
	}
	raw := binary.LittleEndian.Uint32(data[0:4])
	var g Frame
	g.flags.Extended = raw&canEffFlag != 0
	g.flags.RTR = raw&canRtrFlag != 0
	if len(data) == canFDFrameSize {
		g.flags.FD = true
		g.flags.BRS = data[5]&canFDBrs != 0
		g.flags.ESI = data[5]&canFDEsi != 0
	}
	if err := g.flags.Validate(); err != nil {
		return err
	}
	id := raw & canStdMask
	if g.flags.Extended {
		id = raw & canEffMask
	}
	if err := g.SetIdentifier(id); err != nil {
		return err
	}
	n := int(data[4])
	if n > len(data)-8 {
		return fmt.Errorf("%w: %d", ErrInvalidLen, n)
	}
	if err := g.SetData(data[8 : 8+n]); err != nil {
		return err
	}
	if !g.flags.FD && n == 8 && data[7] > 8 {
		if err := g.SetDlc(data[7]); err != nil {
			return err
		}
	}
	*f = g
	return nil
}
