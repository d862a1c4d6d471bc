package packet

const (
	IDHandshake int32 = 0x00
)
