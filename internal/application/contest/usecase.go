package contest

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/application"
	domcontest "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/contest"
	domoutbox "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/outbox"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

const (
	contestService    = "contest-service"
	useCaseStorePhoto = "contest.store_photo"
)

type StorePhotoInput struct {
	Year         string
	Month        string
	TempPath     string
	OriginalName string
}

type StorePhotoResult struct {
	Path string
}

// StorePhotoUseCase moves an uploaded contest photo into its year/month directory.
type StorePhotoUseCase struct {
	store     domcontest.Store
	publisher domoutbox.Publisher
	inst      application.Instruments
}

var _ application.UseCase[StorePhotoInput, *StorePhotoResult] = (*StorePhotoUseCase)(nil)

func NewStorePhotoUseCase(store domcontest.Store, publisher domoutbox.Publisher, tel observability.Observability) *StorePhotoUseCase {
	return &StorePhotoUseCase{
		store:     store,
		publisher: publisher,
		inst:      application.NewInstruments(tel, contestService),
	}
}

func (uc *StorePhotoUseCase) Execute(ctx context.Context, cmd StorePhotoInput) (_ *StorePhotoResult, err error) {
	ctx, run := uc.inst.Begin(ctx, useCaseStorePhoto, "StorePhoto",
		attribute.String("contest.year", cmd.Year),
		attribute.String("contest.month", cmd.Month),
	)
	defer func() { run.End(err) }()

	year, yerr := strconv.Atoi(strings.TrimSpace(cmd.Year))
	month, merr := strconv.Atoi(strings.TrimSpace(cmd.Month))
	if yerr != nil || merr != nil {
		run.SetStatus("PARTITION_INVALID")
		return nil, application.Validation("Year and month must be numbers.")
	}
	partition, err := domcontest.NewPartition(year, month)
	if err != nil {
		run.SetStatus("PARTITION_INVALID")
		return nil, application.Validation("Year or month is out of range.")
	}
	name, err := domcontest.CleanFileName(cmd.OriginalName)
	if err != nil {
		run.SetStatus("FILENAME_INVALID")
		return nil, application.Validation("A photo with a valid file name is required.")
	}
	if cmd.TempPath == "" {
		run.SetStatus("FILE_MISSING")
		return nil, application.Validation("A photo with a valid file name is required.")
	}

	upload := domcontest.Upload{Partition: partition, TempPath: cmd.TempPath, OriginalName: name}
	path, err := uc.store.Save(ctx, upload)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, application.IO(err)
	}
	run.AddField("path", path)

	run.Publish(ctx, uc.publisher, domcontest.NewPhotoUploadedEvent(upload))
	return &StorePhotoResult{Path: path}, nil
}
