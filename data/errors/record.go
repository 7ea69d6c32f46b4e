package errors

func RecordFailed(err error, op, id string) error {
	return newError(err, "%s of record '%s' failed", op, id)
}

func BlobFailed(err error, op, key string) error {
	return newError(err, "%s of blob '%s' failed", op, key)
}

func InputFailed(err error, name string) error {
	return newError(err, "input '%s' failed", name)
}

func ItemFailed(err error, op, id string) error {
	return newError(err, "%s of '%s' failed", op, id)
}
