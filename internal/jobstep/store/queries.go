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

package store

import (
	dbmodel "github.com/sqlagent/jobsync/internal/system/database/model"
)

const stepColumns = `STEP_UID, JOB_ID, STEP_ID, STEP_NAME, SUBSYSTEM, COMMAND, DATABASE_NAME, ` +
	`DATABASE_USER_NAME, RETRY_ATTEMPTS, RETRY_INTERVAL, OUTPUT_FILE_NAME, PROXY_NAME, FLAGS, ` +
	`ON_SUCCESS_ACTION, ON_SUCCESS_STEP_ID, ON_FAIL_ACTION, ON_FAIL_STEP_ID`

var (
	// QueryCreateJob is the query to create a job.
	QueryCreateJob = dbmodel.DBQuery{
		ID:    "JSQ-JOB_STEP-00",
		Query: `INSERT INTO AGENT_JOB (JOB_ID, NAME, DESCRIPTION, START_STEP_ID) VALUES ($1, $2, $3, $4)`,
	}

	// QueryGetJobByName is the query to get a job by name.
	QueryGetJobByName = dbmodel.DBQuery{
		ID:    "JSQ-JOB_STEP-01",
		Query: `SELECT JOB_ID, NAME, DESCRIPTION, START_STEP_ID FROM AGENT_JOB WHERE NAME = $1`,
	}

	// QueryGetJobByID is the query to get a job by id.
	QueryGetJobByID = dbmodel.DBQuery{
		ID:    "JSQ-JOB_STEP-02",
		Query: `SELECT JOB_ID, NAME, DESCRIPTION, START_STEP_ID FROM AGENT_JOB WHERE JOB_ID = $1`,
	}

	// QueryListSteps is the query to list the steps of a job in position order.
	QueryListSteps = dbmodel.DBQuery{
		ID:    "JSQ-JOB_STEP-03",
		Query: `SELECT ` + stepColumns + ` FROM AGENT_JOB_STEP WHERE JOB_ID = $1 ORDER BY STEP_ID`,
	}

	// QueryGetStep is the query to get a step of a job by identity.
	QueryGetStep = dbmodel.DBQuery{
		ID:    "JSQ-JOB_STEP-04",
		Query: `SELECT ` + stepColumns + ` FROM AGENT_JOB_STEP WHERE JOB_ID = $1 AND STEP_UID = $2`,
	}

	// QueryCountSteps is the query to count the steps of a job.
	QueryCountSteps = dbmodel.DBQuery{
		ID:    "JSQ-JOB_STEP-05",
		Query: `SELECT COUNT(*) AS total FROM AGENT_JOB_STEP WHERE JOB_ID = $1`,
	}

	// QueryShiftStepsUp is the query to make room for a step inserted at a position.
	QueryShiftStepsUp = dbmodel.DBQuery{
		ID:    "JSQ-JOB_STEP-06",
		Query: `UPDATE AGENT_JOB_STEP SET STEP_ID = STEP_ID + 1 WHERE JOB_ID = $1 AND STEP_ID >= $2`,
	}

	// QueryInsertStep is the query to insert a step.
	QueryInsertStep = dbmodel.DBQuery{
		ID: "JSQ-JOB_STEP-07",
		Query: `INSERT INTO AGENT_JOB_STEP (` + stepColumns + `) ` +
			`VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
	}

	// QueryGetStepLocation is the query to get the job and position of a step.
	QueryGetStepLocation = dbmodel.DBQuery{
		ID:    "JSQ-JOB_STEP-08",
		Query: `SELECT JOB_ID, STEP_ID FROM AGENT_JOB_STEP WHERE STEP_UID = $1`,
	}

	// QueryDeleteStep is the query to delete a step.
	QueryDeleteStep = dbmodel.DBQuery{
		ID:    "JSQ-JOB_STEP-09",
		Query: `DELETE FROM AGENT_JOB_STEP WHERE STEP_UID = $1`,
	}

	// QueryShiftStepsDown is the query to close the gap left by a deleted step.
	QueryShiftStepsDown = dbmodel.DBQuery{
		ID:    "JSQ-JOB_STEP-10",
		Query: `UPDATE AGENT_JOB_STEP SET STEP_ID = STEP_ID - 1 WHERE JOB_ID = $1 AND STEP_ID > $2`,
	}

	// QueryGetStartStep is the query to get the start step of a job.
	QueryGetStartStep = dbmodel.DBQuery{
		ID:    "JSQ-JOB_STEP-11",
		Query: `SELECT START_STEP_ID FROM AGENT_JOB WHERE JOB_ID = $1`,
	}

	// QuerySetStartStep is the query to set the start step of a job.
	QuerySetStartStep = dbmodel.DBQuery{
		ID:    "JSQ-JOB_STEP-12",
		Query: `UPDATE AGENT_JOB SET START_STEP_ID = $1 WHERE JOB_ID = $2`,
	}
)

// queryIDAlterStep identifies the update built for an alter.
const queryIDAlterStep = "JSQ-JOB_STEP-13"
