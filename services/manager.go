package services

import (
	"lager_server/database"
	"lager_server/storage"
	"lager_server/structs"

	"github.com/MonkyMars/gecho"
)

type ServiceManager struct {
	CacheService   *CacheService
	HealthService  *HealthService
	ProductService *ProductService
	BarcodeService *BarcodeService
}

func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, db *database.DB, disk storage.Disk) *ServiceManager {
	cacheService := NewCacheService(logger, cfg.Cache)
	healthService := NewHealthService(logger, db, cacheService, cfg.Camera.Enabled)
	productService := NewProductService(logger, db, cacheService)
	barcodeService := NewBarcodeService(logger, disk, cfg.Storage.BarcodeDir)

	return &ServiceManager{
		CacheService:   cacheService,
		HealthService:  healthService,
		ProductService: productService,
		BarcodeService: barcodeService,
	}
}
