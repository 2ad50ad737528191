package core

// Serializers for ledger records. cmd/musgen regenerates this file.

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

var IDMUS = idMUS{}

type idMUS struct{}

func (s idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	tmp, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = ID(tmp)
	return
}

func (s idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

var RunStatusMUS = runStatusMUS{}

type runStatusMUS struct{}

func (s runStatusMUS) Marshal(v RunStatus, bs []byte) (n int) {
	return ord.String.Marshal(string(v), bs)
}

func (s runStatusMUS) Unmarshal(bs []byte) (v RunStatus, n int, err error) {
	tmp, n, err := ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v = RunStatus(tmp)
	return
}

func (s runStatusMUS) Size(v RunStatus) (size int) {
	return ord.String.Size(string(v))
}

func (s runStatusMUS) Skip(bs []byte) (n int, err error) {
	return ord.String.Skip(bs)
}

// timeMicroMUS stores a time as Unix microseconds, decoded in UTC.
var timeMicroMUS = timeMicroSer{}

type timeMicroSer struct{}

func (s timeMicroSer) Marshal(v time.Time, bs []byte) (n int) {
	return varint.Int64.Marshal(v.UnixMicro(), bs)
}

func (s timeMicroSer) Unmarshal(bs []byte) (v time.Time, n int, err error) {
	tmp, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = time.UnixMicro(tmp).UTC()
	return
}

func (s timeMicroSer) Size(v time.Time) (size int) {
	return varint.Int64.Size(v.UnixMicro())
}

func (s timeMicroSer) Skip(bs []byte) (n int, err error) {
	return varint.Int64.Skip(bs)
}

var RunMUS = runMUS{}

type runMUS struct{}

func (s runMUS) Marshal(v Run, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += RunStatusMUS.Marshal(v.Status, bs[n:])
	n += timeMicroMUS.Marshal(v.StartedAt, bs[n:])
	n += timeMicroMUS.Marshal(v.FinishedAt, bs[n:])
	n += ord.String.Marshal(v.RawPath, bs[n:])
	n += ord.String.Marshal(v.CleanedPath, bs[n:])
	n += ord.String.Marshal(v.DatasetPath, bs[n:])
	n += varint.Int.Marshal(v.Fetched, bs[n:])
	n += varint.Int.Marshal(v.Cleaned, bs[n:])
	n += varint.Int.Marshal(v.Embedded, bs[n:])
	return n + ord.String.Marshal(v.Error, bs[n:])
}

func (s runMUS) Unmarshal(bs []byte) (v Run, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Status, n1, err = RunStatusMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.StartedAt, n1, err = timeMicroMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.FinishedAt, n1, err = timeMicroMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.RawPath, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CleanedPath, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.DatasetPath, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Fetched, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Cleaned, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Embedded, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Error, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s runMUS) Size(v Run) (size int) {
	size = IDMUS.Size(v.Id)
	size += RunStatusMUS.Size(v.Status)
	size += timeMicroMUS.Size(v.StartedAt)
	size += timeMicroMUS.Size(v.FinishedAt)
	size += ord.String.Size(v.RawPath)
	size += ord.String.Size(v.CleanedPath)
	size += ord.String.Size(v.DatasetPath)
	size += varint.Int.Size(v.Fetched)
	size += varint.Int.Size(v.Cleaned)
	size += varint.Int.Size(v.Embedded)
	return size + ord.String.Size(v.Error)
}

func (s runMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	skips := []func([]byte) (int, error){
		RunStatusMUS.Skip,
		timeMicroMUS.Skip,
		timeMicroMUS.Skip,
		ord.String.Skip,
		ord.String.Skip,
		ord.String.Skip,
		varint.Int.Skip,
		varint.Int.Skip,
		varint.Int.Skip,
		ord.String.Skip,
	}
	var n1 int
	for _, skip := range skips {
		n1, err = skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}
