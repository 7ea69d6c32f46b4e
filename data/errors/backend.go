package errors

func BackendUnsupported(err error, name string) error {
	return newError(err, "backend capability unsupported for '%s'", name)
}

func BackendOpen(err error, name string) error {
	return newError(err, "failed to open backend '%s'", name)
}

func MalformedAddress(err error, address string) error {
	return newError(err, "malformed backend address '%s'", address)
}

func UnknownProtocol(err error, address string) error {
	return newError(err, "unknown backend protocol in '%s'", address)
}
