package domain

// Protocol identifies how a bookmarked host is reached.
// The set is closed: adapters can only resolve to one of these values.
type Protocol string

const (
	ProtocolUnresolved   Protocol = ""
	ProtocolFTP          Protocol = "ftp"
	ProtocolFTPS         Protocol = "ftps"          // AUTH TLS on the control port
	ProtocolFTPSImplicit Protocol = "ftps-implicit" // TLS from the first byte
	ProtocolSFTP         Protocol = "sftp"
	ProtocolDAV          Protocol = "dav"
	ProtocolDAVS         Protocol = "davs"
	ProtocolS3           Protocol = "s3"
)

var defaultPorts = map[Protocol]int{
	ProtocolFTP:          21,
	ProtocolFTPS:         21,
	ProtocolFTPSImplicit: 990,
	ProtocolSFTP:         22,
	ProtocolDAV:          80,
	ProtocolDAVS:         443,
	ProtocolS3:           443,
}

// Scheme is the URI scheme used when talking to the secret store.
func (p Protocol) Scheme() string {
	switch p {
	case ProtocolDAV:
		return "http"
	case ProtocolDAVS, ProtocolS3:
		return "https"
	case ProtocolFTPSImplicit:
		return "ftps"
	default:
		return string(p)
	}
}

// DefaultPort returns the well-known port, or -1 when unresolved.
func (p Protocol) DefaultPort() int {
	if port, ok := defaultPorts[p]; ok {
		return port
	}
	return -1
}

func (p Protocol) String() string {
	if p == ProtocolUnresolved {
		return "unresolved"
	}
	return string(p)
}
