// Package milvus 提供 Milvus 向量数据库访问层实现
package milvus

import (
	"strconv"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

const (
	// CollectionInspirations 灵感 Logo 向量集合
	CollectionInspirations = "logo_inspirations"

	// DefaultVectorDimension 默认向量维度
	DefaultVectorDimension = 1024
)

// InspirationsSchema 灵感 Logo Collection Schema
func InspirationsSchema(dimension int) *entity.Schema {
	if dimension <= 0 {
		dimension = DefaultVectorDimension
	}
	return &entity.Schema{
		CollectionName: CollectionInspirations,
		Description:    "Curated logo inspirations for similarity search",
		Fields: []*entity.Field{
			{
				Name:       "id",
				DataType:   entity.FieldTypeVarChar,
				PrimaryKey: true,
				AutoID:     false,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "vector",
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": strconv.Itoa(dimension),
				},
			},
		},
	}
}
