package validators

import (
	"carrental/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"car_id",
			"user_id",
			"start_time",
			"end_time",
			"status",
			"payment_method",
			"payment_status",
			"total_price",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"car_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"driver_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"start_time": bson.M{
				"bsonType": "date",
			},

			"end_time": bson.M{
				"bsonType": "date",
			},

			"status": bson.M{
				"enum": []string{
					model.BookingStatusPending,
					model.BookingStatusConfirmed,
					model.BookingStatusAccepted,
					model.BookingStatusActive,
					model.BookingStatusCompleted,
					model.BookingStatusCancelled,
					model.BookingStatusDriverCancelled,
					model.BookingStatusRejected,
				},
			},

			"payment_method": bson.M{
				"enum": []string{model.PaymentMethodOnline, model.PaymentMethodCash},
			},

			"payment_status": bson.M{
				"enum": []string{model.PaymentStatusPending, model.PaymentStatusSuccess, model.PaymentStatusFailed},
			},

			"total_price": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
