package keys

import "fmt"

// Network selects the WIF version byte of a secret key
type Network int

const (
	Mainnet Network = iota
	Testnet
)

const (
	mainnetWIFVersion byte = 0x80
	testnetWIFVersion byte = 0xef
)

func (n Network) String() string {
	switch n {
	case Mainnet:
		return "mainnet"
	case Testnet:
		return "testnet"
	default:
		return fmt.Sprintf("network(%d)", int(n))
	}
}

// WIFVersion returns the leading WIF payload byte for the network
func (n Network) WIFVersion() byte {
	if n == Testnet {
		return testnetWIFVersion
	}
	return mainnetWIFVersion
}

func networkFromWIFVersion(v byte) (Network, bool) {
	switch v {
	case mainnetWIFVersion:
		return Mainnet, true
	case testnetWIFVersion:
		return Testnet, true
	default:
		return 0, false
	}
}
