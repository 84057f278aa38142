package factory

import (
	"fmt"

	"go-face-inspector/internal/analyzer"
	"go-face-inspector/internal/config"
	"go-face-inspector/internal/detector"
	"go-face-inspector/internal/storage"
)

// DetectorType represents the face detection backends
type DetectorType string

const (
	// PigoDetector finds faces with the pigo cascade
	PigoDetector DetectorType = config.DetectorPigo
	// NoDetector never finds a face
	NoDetector DetectorType = config.DetectorNone
)

// StorageType represents different types of blob storage backends
type StorageType string

const (
	// AzureStorage for Azure blob storage
	AzureStorage StorageType = "azure"
	// NoStorage disables blob-sourced analysis
	NoStorage StorageType = "none"
)

// DetectorFactory creates face detectors
type DetectorFactory interface {
	CreateDetector(detectorType DetectorType) (analyzer.FaceDetector, error)
}

// StorageFactory creates storage implementations
type StorageFactory interface {
	CreateStorage(storageType StorageType) (storage.BlobStorage, error)
}

// detectorFactory implements DetectorFactory
type detectorFactory struct {
	cfg *config.Config
}

// NewDetectorFactory creates a detector factory reading cascade paths from cfg
func NewDetectorFactory(cfg *config.Config) DetectorFactory {
	return &detectorFactory{cfg: cfg}
}

// CreateDetector creates a detector based on the specified type
func (f *detectorFactory) CreateDetector(detectorType DetectorType) (analyzer.FaceDetector, error) {
	switch detectorType {
	case PigoDetector:
		d, err := detector.NewPigoDetectorFromFiles(f.cfg.FaceCascadePath, f.cfg.PupilCascadePath, detector.DefaultPigoOptions())
		if err != nil {
			return nil, err
		}
		return d, nil
	case NoDetector, "":
		return detector.NoneDetector{}, nil
	default:
		return nil, fmt.Errorf("unsupported detector type: %s", detectorType)
	}
}

// storageFactory implements StorageFactory
type storageFactory struct {
	cfg *config.Config
}

// NewStorageFactory creates a storage factory using the Azure credentials in cfg
func NewStorageFactory(cfg *config.Config) StorageFactory {
	return &storageFactory{cfg: cfg}
}

// CreateStorage creates a storage implementation based on the specified type.
// NoStorage yields a nil BlobStorage.
func (f *storageFactory) CreateStorage(storageType StorageType) (storage.BlobStorage, error) {
	switch storageType {
	case AzureStorage:
		if !f.cfg.AzureEnabled() {
			return nil, fmt.Errorf("azure storage requires AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY")
		}
		return storage.NewAzureStorage(f.cfg.AzureStorageAccount, f.cfg.AzureStorageKey, f.cfg.MaxUploadSize)
	case NoStorage:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	DetectorFactory DetectorFactory
	StorageFactory  StorageFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory(cfg *config.Config) *ComponentFactory {
	return &ComponentFactory{
		DetectorFactory: NewDetectorFactory(cfg),
		StorageFactory:  NewStorageFactory(cfg),
	}
}

// DetectorTypeFor maps the configured backend onto a DetectorType
func DetectorTypeFor(cfg *config.Config) DetectorType {
	return DetectorType(cfg.FaceDetector)
}

// StorageTypeFor picks Azure when credentials are configured
func StorageTypeFor(cfg *config.Config) StorageType {
	if cfg.AzureEnabled() {
		return AzureStorage
	}
	return NoStorage
}
