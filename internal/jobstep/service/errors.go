/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package service

import (
	"context"
	"errors"

	"github.com/sqlagent/jobsync/internal/jobstep/constants"
	"github.com/sqlagent/jobsync/internal/jobstep/model"
	"github.com/sqlagent/jobsync/internal/system/error/serviceerror"
	"github.com/sqlagent/jobsync/internal/system/error/syncerror"
)

// ToServiceError maps an error returned by the service onto a user facing error.
func ToServiceError(err error) *serviceerror.ServiceError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return serviceerror.CustomServiceError(constants.ErrorSyncCancelled, "")
	case syncerror.IsValidation(err):
		return serviceerror.CustomServiceError(constants.ErrorInvalidStepDefinition, err.Error())
	case syncerror.IsConflict(err):
		return serviceerror.CustomServiceError(constants.ErrorStepConflict, err.Error())
	case errors.Is(err, model.ErrJobNotFound):
		return serviceerror.CustomServiceError(constants.ErrorJobNotFound, "")
	case syncerror.IsTransport(err):
		return serviceerror.CustomServiceError(constants.ErrorRemoteStoreFailure, err.Error())
	default:
		return serviceerror.CustomServiceError(constants.ErrorInternalServerError, "")
	}
}
